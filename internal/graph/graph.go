// Package graph loads the read-only item relation graph produced by the
// external knowledge-graph builder.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Edge is one typed relation between two items.
type Edge struct {
	From string `json:"from_id"`
	To   string `json:"to_id"`
	Type string `json:"rel"`
}

// Neighbor is the far end of an edge as seen from one item.
type Neighbor struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// UnmarshalJSON accepts {"id": ..., "type": ...} or a [id, type] pair.
func (n *Neighbor) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("relation pair must have 2 elements, got %d", len(pair))
		}
		n.ID, n.Type = pair[0], pair[1]
		return nil
	}
	type plain Neighbor
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Neighbor(p)
	return nil
}

// Relations lists an item's outgoing and incoming edges.
type Relations struct {
	Outgoing []Neighbor `json:"outgoing"`
	Incoming []Neighbor `json:"incoming"`
}

// Graph maps item ids to their relations. A nil *Graph has no edges.
type Graph struct {
	nodes map[string]*Relations
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: map[string]*Relations{}}
}

// FromEdges builds a graph, recording each edge on both endpoints.
func FromEdges(edges []Edge) *Graph {
	g := New()
	for _, e := range edges {
		g.add(e)
	}
	return g
}

// FromRelations builds a graph from the builder's per-item mapping. Edges
// present on only one side are completed on the other.
func FromRelations(m map[string]Relations) *Graph {
	var edges []Edge
	for id, rel := range m {
		for _, n := range rel.Outgoing {
			edges = append(edges, Edge{From: id, To: n.ID, Type: n.Type})
		}
		for _, n := range rel.Incoming {
			edges = append(edges, Edge{From: n.ID, To: id, Type: n.Type})
		}
	}
	return FromEdges(edges)
}

func (g *Graph) node(id string) *Relations {
	r, ok := g.nodes[id]
	if !ok {
		r = &Relations{}
		g.nodes[id] = r
	}
	return r
}

func (g *Graph) add(e Edge) {
	if e.From == "" || e.To == "" || e.From == e.To {
		return
	}
	from := g.node(e.From)
	for _, n := range from.Outgoing {
		if n.ID == e.To && n.Type == e.Type {
			return
		}
	}
	from.Outgoing = append(from.Outgoing, Neighbor{ID: e.To, Type: e.Type})
	to := g.node(e.To)
	to.Incoming = append(to.Incoming, Neighbor{ID: e.From, Type: e.Type})
}

// Relations returns the edges of one item.
func (g *Graph) Relations(id string) Relations {
	if g == nil {
		return Relations{}
	}
	if r, ok := g.nodes[id]; ok {
		return *r
	}
	return Relations{}
}

// Neighbors returns the ids connected to id in either direction, filtered
// to the given relation types (all types when types is empty).
func (g *Graph) Neighbors(id string, types map[string]bool) []string {
	rel := g.Relations(id)
	seen := map[string]bool{}
	var out []string
	for _, list := range [][]Neighbor{rel.Outgoing, rel.Incoming} {
		for _, n := range list {
			if len(types) > 0 && !types[n.Type] {
				continue
			}
			if !seen[n.ID] {
				seen[n.ID] = true
				out = append(out, n.ID)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge once, ordered by from, to, type.
func (g *Graph) Edges() []Edge {
	if g == nil {
		return nil
	}
	var out []Edge
	for id, r := range g.nodes {
		for _, n := range r.Outgoing {
			out = append(out, Edge{From: id, To: n.ID, Type: n.Type})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Len returns the number of items with at least one edge.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}
