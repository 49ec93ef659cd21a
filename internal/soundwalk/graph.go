// Package soundwalk projects the location graph from a memory snapshot and
// answers navigation queries against it.
//
// The graph is derived, never stored: nodes are the distinct location
// names, and every pointer-type memory with a non-empty location and
// destination contributes one directed edge. Parallel edges are preserved;
// each keeps the identity of the memory that produced it.
package soundwalk

import (
	"github.com/fernvale/murmur/internal/locations"
	"github.com/fernvale/murmur/internal/models"
)

// Edge is one directed traversal between two locations, carrying the
// pointer memory that defines it for presentation.
type Edge struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Memory models.Memory `json:"memory"`
}

// Graph is the projected location graph. No acyclicity or connectivity is
// enforced.
type Graph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Project builds the graph for the given snapshot. A pointer with an empty
// location or destination is not a valid traversal and produces no edge;
// the empty location name is never a node.
func Project(memories []models.Memory) Graph {
	g := Graph{
		Nodes: locations.All(memories),
		Edges: []Edge{},
	}
	for _, m := range memories {
		if m.Type != models.Pointer || m.Location == "" || m.Destination == "" {
			continue
		}
		g.Edges = append(g.Edges, Edge{From: m.Location, To: m.Destination, Memory: m})
	}
	return g
}

// SoundsAt returns the non-pointer memories recorded at location, in
// insertion order. Matching is exact: names differing in case or spacing
// are distinct locations.
func SoundsAt(memories []models.Memory, location string) []models.Memory {
	var out []models.Memory
	for _, m := range memories {
		if m.Type != models.Pointer && m.Location == location {
			out = append(out, m)
		}
	}
	return out
}

// OutboundPointers returns the pointer memories originating at location,
// in insertion order. Multiple pointers to the same destination are all
// returned; deduplication, if any, belongs to the caller.
func OutboundPointers(memories []models.Memory, location string) []models.Memory {
	var out []models.Memory
	for _, m := range memories {
		if m.Type == models.Pointer && m.Location == location {
			out = append(out, m)
		}
	}
	return out
}
