// Package statemap holds the state-transition map extracted from a program.
//
// A [Map] is an ordered sequence of [Edge] values plus a derived index from
// source state to edge positions. Order is discovery order: edges appear
// exactly in the sequence they were added, and no iteration depends on Go map
// ordering. Duplicate edges are kept; a state may declare the same transition
// more than once.
//
// # Lifecycle
//
// A Map is created empty for one analysis run, filled by the extractor while
// the program is walked, and only read once the walk has finished. Nothing is
// persisted between runs.
//
// # Concurrency
//
// Map is not safe for concurrent use. A run fills it from a single goroutine.
package statemap

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
)

var (
	// ErrEmptyName is returned by [Map.Add] when the source or target of an
	// edge is empty. Every edge endpoint must be a non-empty normalized name.
	ErrEmptyName = errors.New("state name must not be empty")

	// ErrInvalidKind is returned by [Map.Add] for a kind outside the closed
	// set of transition kinds.
	ErrInvalidKind = errors.New("invalid transition kind")
)

// Edge is one extracted (source, kind, target) fact.
type Edge struct {
	Source string          `json:"source"`
	Kind   transition.Kind `json:"kind"`
	Target string          `json:"target"`
}

// String renders the edge as "Source -Kind-> Target".
func (e Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.Source, e.Kind, e.Target)
}

// Transition is the (kind, target) half of an edge, as seen from its source.
type Transition struct {
	Kind   transition.Kind
	Target string
}

// Map is an insertion-ordered, multi-valued mapping from source state to
// transitions. The zero value is not usable; create maps with [New].
type Map struct {
	edges    []Edge
	bySource map[string][]int // source -> indices into edges
	sources  []string         // distinct sources, first-seen order
}

// New creates an empty map.
func New() *Map {
	return &Map{bySource: make(map[string][]int)}
}

// Add appends an edge. It returns [ErrEmptyName] if either endpoint is empty
// and [ErrInvalidKind] if the kind is not one of the four declared kinds.
func (m *Map) Add(e Edge) error {
	if e.Source == "" || e.Target == "" {
		return fmt.Errorf("%w: %s", ErrEmptyName, e)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidKind, int(e.Kind))
	}
	if _, seen := m.bySource[e.Source]; !seen {
		m.sources = append(m.sources, e.Source)
	}
	m.bySource[e.Source] = append(m.bySource[e.Source], len(m.edges))
	m.edges = append(m.edges, e)
	return nil
}

// Len returns the number of edges, duplicates included.
func (m *Map) Len() int { return len(m.edges) }

// Edges returns a copy of all edges in insertion order.
func (m *Map) Edges() []Edge { return slices.Clone(m.edges) }

// Sources returns the distinct source states in the order their first edge
// was added.
func (m *Map) Sources() []string { return slices.Clone(m.sources) }

// From returns the transitions declared by source, in insertion order.
// It returns nil for a state with no outgoing edges.
func (m *Map) From(source string) []Transition {
	idx := m.bySource[source]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Transition, len(idx))
	for i, j := range idx {
		out[i] = Transition{Kind: m.edges[j].Kind, Target: m.edges[j].Target}
	}
	return out
}

// States returns every distinct state name that appears as a source or a
// target. Names are ordered by first appearance, scanning edges in insertion
// order and visiting each edge's source before its target.
func (m *Map) States() []string {
	seen := make(map[string]bool, 2*len(m.sources))
	var out []string
	visit := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, e := range m.edges {
		visit(e.Source)
		visit(e.Target)
	}
	return out
}

// CountByKind returns the number of edges of each kind.
func (m *Map) CountByKind() map[transition.Kind]int {
	counts := make(map[transition.Kind]int, len(transition.Kinds))
	for _, e := range m.edges {
		counts[e.Kind]++
	}
	return counts
}
