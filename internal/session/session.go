// Package session builds the ordered, size-capped list of due items for one
// review session.
package session

import (
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/recall/internal/graph"
	"github.com/rcliao/recall/internal/model"
)

// DefaultLimit caps a session when Options.Limit is unset.
const DefaultLimit = 20

// Options holds parameters for session construction.
type Options struct {
	Today         model.Date
	Limit         int      // max items in the batch
	Domain        string   // only items with this domain tag
	RelationTypes []string // edge types that connect items; empty means all
}

// Item is one entry of the session.
type Item struct {
	ItemID      string `json:"item_id"`
	DomainTag   string `json:"domain_tag"`
	Title       string `json:"title"`
	Cluster     int    `json:"cluster"`
	OverdueDays int    `json:"overdue_days"`
	New         bool   `json:"new,omitempty"`
}

// Cluster is a connected component of due items. Items lists only the
// members that made it into the batch.
type Cluster struct {
	ID             int      `json:"id"`
	Items          []string `json:"items"`
	Size           int      `json:"size"`
	Edges          int      `json:"edges"`
	MaxOverdueDays int      `json:"max_overdue_days"`
}

// Session is the assembled review batch.
type Session struct {
	ID        string     `json:"session_id"`
	Today     model.Date `json:"today"`
	Items     []Item     `json:"items"`
	Clusters  []Cluster  `json:"clusters"`
	TotalDue  int        `json:"total_due"`
	Remaining int        `json:"remaining"`
	HasMore   bool       `json:"has_more"`
}

// Due returns the records whose next review is today or earlier, optionally
// restricted to one domain, ordered by item id.
func Due(records []model.Record, today model.Date, domain string) []model.Record {
	var out []model.Record
	for _, rec := range records {
		if domain != "" && rec.DomainTag != domain {
			continue
		}
		if rec.IsDue(today) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Build selects due items, clusters them over g, orders the clusters and
// caps the result at opts.Limit.
func Build(records []model.Record, g *graph.Graph, opts Options) (*Session, error) {
	if opts.Today.IsZero() {
		return nil, fmt.Errorf("session: today is required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	var types map[string]bool
	if len(opts.RelationTypes) > 0 {
		types = make(map[string]bool, len(opts.RelationTypes))
		for _, t := range opts.RelationTypes {
			types[t] = true
		}
	}

	due := Due(records, opts.Today, opts.Domain)
	byID := make(map[string]model.Record, len(due))
	ids := make([]string, len(due))
	for i, rec := range due {
		byID[rec.ItemID] = rec
		ids[i] = rec.ItemID
	}

	adj := buildAdjacency(ids, g, types)
	overdue := func(id string) int { return byID[id].OverdueDays(opts.Today) }
	comps := orderComponents(Components(ids, adj), adj, overdue)

	s := &Session{
		ID:       ulid.Make().String(),
		Today:    opts.Today,
		Items:    []Item{},
		Clusters: []Cluster{},
		TotalDue: len(due),
	}

	for ci, c := range comps {
		if len(s.Items) >= limit {
			break
		}
		cl := Cluster{ID: ci, Size: len(c.members), Edges: c.edges, MaxOverdueDays: c.maxOverdue}
		for _, id := range c.members {
			if len(s.Items) >= limit {
				break
			}
			rec := byID[id]
			s.Items = append(s.Items, Item{
				ItemID:      id,
				DomainTag:   rec.DomainTag,
				Title:       rec.Title,
				Cluster:     ci,
				OverdueDays: overdue(id),
				New:         rec.IsNew(),
			})
			cl.Items = append(cl.Items, id)
		}
		s.Clusters = append(s.Clusters, cl)
	}

	s.Remaining = s.TotalDue - len(s.Items)
	s.HasMore = s.Remaining > 0
	return s, nil
}
