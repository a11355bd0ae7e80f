// Package observability provides hooks for metrics and tracing.
//
// The extraction pipeline reports its stages through [PipelineHooks]
// without depending on a specific backend. A consumer registers an
// implementation at startup; the default is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, path)
//	// ... parse the translation unit ...
//	observability.Pipeline().OnParseComplete(ctx, path, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the extraction pipeline.
type PipelineHooks interface {
	// Parse events, one pair per source file.
	OnParseStart(ctx context.Context, path string)
	OnParseComplete(ctx context.Context, path string, duration time.Duration, err error)

	// Extract events. edges is the number of transitions recorded.
	OnExtractStart(ctx context.Context)
	OnExtractComplete(ctx context.Context, edges int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                             {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnExtractStart(context.Context)                                   {}
func (NoopPipelineHooks) OnExtractComplete(context.Context, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup. Implementations must
// be safe for concurrent use: parse events arrive from parallel workers.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the no-op default.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
