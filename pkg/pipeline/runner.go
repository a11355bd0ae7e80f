package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hsmviz/pkg/facts"
	"github.com/matzehuels/hsmviz/pkg/hsm/extract"
	"github.com/matzehuels/hsmviz/pkg/hsm/statemap"
	"github.com/matzehuels/hsmviz/pkg/observability"
)

// Runner encapsulates pipeline execution with logging.
//
// The Runner is stateless except for the logger and the extractor options:
// every Execute builds a fresh map, so nothing survives between runs.
type Runner struct {
	Extract []extract.Option
	Logger  *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default is used.
func NewRunner(logger *log.Logger, opts ...extract.Option) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Extract: opts, Logger: logger}
}

// Execute runs the complete extract → render pipeline.
func (r *Runner) Execute(ctx context.Context, p facts.Provider, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Extract
	extractStart := time.Now()
	m, stats, err := r.Analyze(ctx, p)
	result.Stats.Stats = stats
	result.Stats.ExtractTime = time.Since(extractStart)
	if err != nil {
		return nil, err
	}
	result.Map = m
	result.Stats.States = len(m.States())

	// Stage 2: Render
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, err := Render(ctx, m, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze walks p once and returns the completed map.
func (r *Runner) Analyze(ctx context.Context, p facts.Provider) (*statemap.Map, extract.Stats, error) {
	hooks := observability.Pipeline()
	hooks.OnExtractStart(ctx)
	start := time.Now()
	m, stats, err := extract.Run(ctx, p, r.Extract...)
	hooks.OnExtractComplete(ctx, stats.Edges, time.Since(start), err)
	if err != nil {
		r.Logger.Debug("extraction aborted", "matches", stats.Matches, "edges", stats.Edges)
		return nil, stats, err
	}

	r.Logger.Info("extracted transitions",
		"states", len(m.States()),
		"edges", m.Len(),
		"duration", time.Since(start))
	if stats.Skipped() > 0 {
		r.Logger.Debug("skipped matches",
			"unbound", stats.Unbound,
			"not_instantiated", stats.NotInstantiated)
	}
	return m, stats, nil
}
