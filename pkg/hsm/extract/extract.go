// Package extract turns program-fact matches into state-transition edges.
//
// An [Extractor] is the callback a facts.Provider drives: it is invoked once
// per matched transition call and appends at most one edge to its map.
// For each match it
//
//  1. skips the match if the enclosing state or the callee is unbound,
//  2. skips it if the callee is not a template instantiation,
//  3. classifies the callee name into a transition kind,
//  4. normalizes the first template argument as the target state,
//  5. normalizes the enclosing class as the source state,
//  6. appends the edge.
//
// Skips are counted in [Stats] but never reported as errors. A callee name
// the classifier does not recognize is fatal: [Extractor.Handle] returns an
// UNCLASSIFIABLE_TRANSITION error and the run must stop.
//
// The extractor performs no I/O; its only side effect is mutating its map.
package extract

import (
	"context"
	"fmt"

	"github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/facts"
	"github.com/matzehuels/hsmviz/pkg/hsm/names"
	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
)

// Stats counts what happened to the matches seen so far.
type Stats struct {
	Matches         int // matches handled
	Edges           int // edges appended
	Unbound         int // skipped: state or callee missing
	NotInstantiated int // skipped: callee is not a template instantiation
}

// Skipped returns the number of matches that produced no edge.
func (s Stats) Skipped() int { return s.Unbound + s.NotInstantiated }

// Option configures an Extractor.
type Option func(*Extractor)

// WithClassifier sets the classifier. The default is transition.Default().
func WithClassifier(c *transition.Classifier) Option {
	return func(x *Extractor) {
		if c != nil {
			x.classifier = c
		}
	}
}

// WithNormalizer sets the name normalizer. The default is names.Default().
func WithNormalizer(n *names.Normalizer) Option {
	return func(x *Extractor) {
		if n != nil {
			x.names = n
		}
	}
}

// Extractor accumulates edges into a map. It is not safe for concurrent use.
type Extractor struct {
	classifier *transition.Classifier
	names      *names.Normalizer
	m          *statemap.Map
	stats      Stats
}

// New creates an extractor with an empty map.
func New(opts ...Option) *Extractor {
	x := &Extractor{
		classifier: transition.Default(),
		names:      names.Default(),
		m:          statemap.New(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Handle processes one match.
func (x *Extractor) Handle(m facts.Match) error {
	x.stats.Matches++

	if m.State == nil || m.Callee == nil {
		x.stats.Unbound++
		return nil
	}
	spec := m.Callee.Specialization
	if spec == nil || len(spec.Args) == 0 {
		x.stats.NotInstantiated++
		return nil
	}

	kind, err := x.classifier.Classify(m.Callee.QualifiedName())
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "state %s%s", m.State.QualifiedName(), location(m))
	}

	edge := statemap.Edge{
		Source: x.names.State(*m.State),
		Kind:   kind,
		Target: x.names.Type(spec.Args[0]),
	}
	if err := x.m.Add(edge); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "state %s%s", m.State.QualifiedName(), location(m))
	}
	x.stats.Edges++
	return nil
}

// Map returns the map being filled. Read it only after the walk finished.
func (x *Extractor) Map() *statemap.Map { return x.m }

// Stats returns the counters for the matches handled so far.
func (x *Extractor) Stats() Stats { return x.stats }

// Run walks p with a fresh extractor and returns the completed map. On error
// no map is returned, so callers never see a partial result.
func Run(ctx context.Context, p facts.Provider, opts ...Option) (*statemap.Map, Stats, error) {
	x := New(opts...)
	if err := p.Walk(ctx, x.Handle); err != nil {
		return nil, x.stats, err
	}
	return x.m, x.stats, nil
}

func location(m facts.Match) string {
	switch {
	case m.File != "" && m.Line > 0:
		return fmt.Sprintf(" (%s:%d)", m.File, m.Line)
	case m.File != "":
		return fmt.Sprintf(" (%s)", m.File)
	}
	return ""
}
