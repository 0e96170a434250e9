package plugin

import (
	"sort"
	"sync"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/types"
)

// Engine owns the ordered plugin list and drives hook execution. Plugins are
// sorted by phase once at construction; the sort is stable, so registration
// order is preserved within a phase. The engine holds no per-request state
// and is safe to share across concurrent calls.
type Engine struct {
	plugins []Plugin
}

// NewEngine creates an engine from the given plugins, sorted by phase.
func NewEngine(plugins ...Plugin) *Engine {
	sorted := make([]Plugin, len(plugins))
	copy(sorted, plugins)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Phase() < sorted[j].Phase()
	})
	return &Engine{plugins: sorted}
}

// Plugins returns the phase-ordered plugin list.
func (e *Engine) Plugins() []Plugin {
	out := make([]Plugin, len(e.plugins))
	copy(out, e.plugins)
	return out
}

// ResolveModel runs the first-match model resolution hook. The first plugin
// returning a non-empty model wins; if none does, the original model id is
// used.
func (e *Engine) ResolveModel(ctx *Context, model string) (string, error) {
	for _, p := range e.plugins {
		resolved, err := p.ResolveModel(ctx, model)
		if err != nil {
			return "", err
		}
		if resolved != "" {
			return resolved, nil
		}
	}
	return model, nil
}

// LoadTemplate runs the first-match template hook. Returns nil when no
// plugin supplies the template.
func (e *Engine) LoadTemplate(ctx *Context, name string) ([]types.Message, error) {
	for _, p := range e.plugins {
		messages, err := p.LoadTemplate(ctx, name)
		if err != nil {
			return nil, err
		}
		if messages != nil {
			return messages, nil
		}
	}
	return nil, nil
}

// TransformParams threads params through every plugin in order. A failure
// aborts the chain; transforms already applied are not rolled back.
func (e *Engine) TransformParams(ctx *Context, params types.TextParams) (types.TextParams, error) {
	var err error
	for _, p := range e.plugins {
		params, err = p.TransformParams(ctx, params)
		if err != nil {
			return params, err
		}
	}
	return params, nil
}

// TransformResult threads the result through every plugin in order.
func (e *Engine) TransformResult(ctx *Context, result types.TextResult) (types.TextResult, error) {
	var err error
	for _, p := range e.plugins {
		result, err = p.TransformResult(ctx, result)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// OnRequestStart fires the start notification on all plugins concurrently.
// Every hook runs to completion; the first failure in plugin order is
// returned.
func (e *Engine) OnRequestStart(ctx *Context) error {
	return e.parallel(func(p Plugin) error {
		return p.OnRequestStart(ctx)
	})
}

// OnRequestEnd fires the end notification on all plugins concurrently.
func (e *Engine) OnRequestEnd(ctx *Context, result *types.TextResult) error {
	return e.parallel(func(p Plugin) error {
		return p.OnRequestEnd(ctx, result)
	})
}

// OnError fires the error notification on all plugins concurrently. Callers
// are expected to discard the returned error so that a broken reporting
// plugin never masks the original failure.
func (e *Engine) OnError(ctx *Context, cause error) error {
	return e.parallel(func(p Plugin) error {
		return p.OnError(ctx, cause)
	})
}

// TransformStream folds the stream through every plugin in phase order, so
// the last plugin's wrapper is outermost.
func (e *Engine) TransformStream(stream connector.Stream) connector.Stream {
	for _, p := range e.plugins {
		stream = p.TransformStream(stream)
	}
	return stream
}

// parallel invokes fn for every plugin on its own goroutine, waits for all of
// them, and reports the first failure in plugin order.
func (e *Engine) parallel(fn func(Plugin) error) error {
	if len(e.plugins) == 0 {
		return nil
	}

	errs := make([]error, len(e.plugins))
	var wg sync.WaitGroup
	wg.Add(len(e.plugins))
	for i, p := range e.plugins {
		go func(i int, p Plugin) {
			defer wg.Done()
			errs[i] = fn(p)
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
