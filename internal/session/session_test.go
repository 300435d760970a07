package session

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/recall/internal/graph"
	"github.com/rcliao/recall/internal/model"
)

var today = model.MustParseDate("2025-03-10")

func rec(id string, dueOffset int) model.Record {
	return model.Record{
		ItemID:      id,
		DomainTag:   "go",
		Title:       "Title " + id,
		MemoryState: model.NewState(today.AddDays(dueOffset)),
		Algorithm:   model.AlgorithmFSRS,
	}
}

func clusterItems(s *Session) [][]string {
	var out [][]string
	for _, c := range s.Clusters {
		out = append(out, c.Items)
	}
	return out
}

func TestBuildClustersScenario(t *testing.T) {
	records := []model.Record{rec("E", 0), rec("C", 0), rec("A", 0), rec("D", 0), rec("B", 0)}
	g := graph.FromEdges([]graph.Edge{
		{From: "A", To: "B", Type: "links"},
		{From: "C", To: "B", Type: "backlink"},
	})

	s, err := Build(records, g, Options{Today: today})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A", "B", "C"}, {"D"}, {"E"}}, clusterItems(s))
	assert.Len(t, s.Items, 5)
	assert.False(t, s.HasMore)
	assert.Equal(t, 0, s.Remaining)
	assert.Equal(t, 5, s.TotalDue)
	assert.Equal(t, 2, s.Clusters[0].Edges)
	for _, it := range s.Items[:3] {
		assert.Equal(t, 0, it.Cluster)
	}
	_, err = ulid.ParseStrict(s.ID)
	assert.NoError(t, err)
}

func TestDueSelectionIsInclusive(t *testing.T) {
	records := []model.Record{
		rec("long-overdue", -30),
		rec("yesterday", -1),
		rec("today", 0),
		rec("tomorrow", 1),
	}
	due := Due(records, today, "")

	var ids []string
	for _, r := range due {
		ids = append(ids, r.ItemID)
	}
	assert.Equal(t, []string{"long-overdue", "today", "yesterday"}, ids)
}

func TestMoreOverdueFirst(t *testing.T) {
	records := []model.Record{rec("a", 0), rec("b", -5), rec("c", -2), rec("d", -5)}
	s, err := Build(records, graph.New(), Options{Today: today})
	require.NoError(t, err)

	var order []string
	for _, it := range s.Items {
		order = append(order, it.ItemID)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, order)
	assert.Equal(t, 5, s.Items[0].OverdueDays)
}

func TestDenserClusterFirstOnEqualUrgency(t *testing.T) {
	records := []model.Record{rec("a", 0), rec("b", 0), rec("x", 0), rec("y", 0), rec("z", 0)}
	g := graph.FromEdges([]graph.Edge{
		{From: "a", To: "b", Type: "links"},
		{From: "x", To: "y", Type: "links"},
		{From: "y", To: "z", Type: "links"},
		{From: "z", To: "x", Type: "links"},
	})
	s, err := Build(records, g, Options{Today: today})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y", "z"}, {"a", "b"}}, clusterItems(s))
	assert.Equal(t, 3, s.Clusters[0].Edges)
}

func TestEdgesToItemsNotDueDoNotConnect(t *testing.T) {
	records := []model.Record{rec("a", 0), rec("b", 0), rec("hub", 4)}
	g := graph.FromEdges([]graph.Edge{
		{From: "a", To: "hub", Type: "links"},
		{From: "b", To: "hub", Type: "links"},
	})
	s, err := Build(records, g, Options{Today: today})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}}, clusterItems(s))
}

func TestBatchLimit(t *testing.T) {
	var records []model.Record
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		records = append(records, rec(id, 0))
	}
	g := graph.FromEdges([]graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "d"}})

	s, err := Build(records, g, Options{Today: today, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, s.Items, 3)
	assert.True(t, s.HasMore)
	assert.Equal(t, 3, s.Remaining)
	assert.Equal(t, 6, s.TotalDue)
	require.Len(t, s.Clusters, 1)
	assert.Equal(t, []string{"a", "b", "c"}, s.Clusters[0].Items)
	assert.Equal(t, 4, s.Clusters[0].Size)
}

func TestDefaultLimit(t *testing.T) {
	var records []model.Record
	for i := 0; i < 25; i++ {
		records = append(records, rec(string(rune('a'+i)), 0))
	}
	s, err := Build(records, nil, Options{Today: today})
	require.NoError(t, err)
	assert.Len(t, s.Items, DefaultLimit)
	assert.True(t, s.HasMore)
}

func TestDomainFilter(t *testing.T) {
	m := rec("m", 0)
	m.DomainTag = "math"
	records := []model.Record{rec("g", 0), m}
	s, err := Build(records, nil, Options{Today: today, Domain: "math"})
	require.NoError(t, err)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "m", s.Items[0].ItemID)
}

func TestRelationTypeFilter(t *testing.T) {
	records := []model.Record{rec("a", 0), rec("b", 0), rec("c", 0)}
	g := graph.FromEdges([]graph.Edge{
		{From: "a", To: "b", Type: "depends_on"},
		{From: "b", To: "c", Type: "mentions"},
	})
	s, err := Build(records, g, Options{Today: today, RelationTypes: []string{"depends_on"}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, clusterItems(s))
}

func TestEmptySession(t *testing.T) {
	s, err := Build([]model.Record{rec("later", 3)}, graph.New(), Options{Today: today})
	require.NoError(t, err)
	assert.Empty(t, s.Items)
	assert.Empty(t, s.Clusters)
	assert.False(t, s.HasMore)
}

func TestBuildRequiresToday(t *testing.T) {
	_, err := Build(nil, nil, Options{})
	assert.Error(t, err)
}

func TestComponentsCoversEveryID(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	adj := map[string][]string{"a": {"c"}, "c": {"a"}}
	comps := Components(ids, adj)
	assert.Len(t, comps, 3)
	seen := map[string]int{}
	for _, c := range comps {
		for _, id := range c {
			seen[id]++
		}
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1}, seen)
}
