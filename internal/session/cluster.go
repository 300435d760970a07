package session

import (
	"sort"

	"github.com/rcliao/recall/internal/graph"
)

// buildAdjacency returns an undirected adjacency list over ids, keeping only
// edges whose both ends are in ids. Neighbor lists are sorted.
func buildAdjacency(ids []string, g *graph.Graph, types map[string]bool) map[string][]string {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}

	sets := make(map[string]map[string]bool, len(ids))
	link := func(a, b string) {
		if sets[a] == nil {
			sets[a] = map[string]bool{}
		}
		sets[a][b] = true
	}
	for _, id := range ids {
		for _, n := range g.Neighbors(id, types) {
			if in[n] && n != id {
				link(id, n)
				link(n, id)
			}
		}
	}

	adj := make(map[string][]string, len(ids))
	for _, id := range ids {
		var list []string
		for n := range sets[id] {
			list = append(list, n)
		}
		sort.Strings(list)
		adj[id] = list
	}
	return adj
}

// Components finds connected components with an iterative depth-first
// traversal. Start nodes are taken in the order of ids; every id appears in
// exactly one component, isolated ids as singletons.
func Components(ids []string, adj map[string][]string) [][]string {
	visited := make(map[string]bool, len(ids))
	var comps [][]string
	for _, start := range ids {
		if visited[start] {
			continue
		}
		visited[start] = true
		stack := []string{start}
		var comp []string
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, id)
			for _, n := range adj[id] {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

type component struct {
	members    []string
	edges      int
	maxOverdue int
}

// orderComponents sorts members by overdue days (desc) then id, and
// components by most overdue member, then internal edge count, then size,
// then first member id.
func orderComponents(comps [][]string, adj map[string][]string, overdue func(string) int) []component {
	out := make([]component, len(comps))
	for i, members := range comps {
		sort.Slice(members, func(a, b int) bool {
			oa, ob := overdue(members[a]), overdue(members[b])
			if oa != ob {
				return oa > ob
			}
			return members[a] < members[b]
		})
		degree := 0
		for _, id := range members {
			degree += len(adj[id])
		}
		out[i] = component{members: members, edges: degree / 2, maxOverdue: overdue(members[0])}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.maxOverdue != b.maxOverdue {
			return a.maxOverdue > b.maxOverdue
		}
		if a.edges != b.edges {
			return a.edges > b.edges
		}
		if len(a.members) != len(b.members) {
			return len(a.members) > len(b.members)
		}
		return a.members[0] < b.members[0]
	})
	return out
}
