// Package plugin provides the runtime hook system. Plugins participate in the
// request lifecycle across five hook categories: first-match (model
// resolution, template loading), sequential transforms (params, result),
// parallel notifications (start, end, error), and stream transformation.
//
// Unlike layers, which wrap connectors at build time, plugins hook into the
// executor's request flow and work across every backend.
package plugin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/types"
)

// Phase controls plugin execution precedence. Within a phase, plugins run in
// registration order.
type Phase int

// Plugin phases, in execution order.
const (
	PhasePre Phase = iota
	PhaseNormal
	PhasePost
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePre:
		return "pre"
	case PhasePost:
		return "post"
	default:
		return "normal"
	}
}

// Context carries per-request identity into every hook invocation. It is
// created once per executor call and is read-only for plugins; per-call
// values must not be stored on the plugin itself.
type Context struct {
	context.Context

	// RequestID is the unique identifier generated for this request.
	RequestID string

	// Backend is the declared id of the connector serving this request.
	Backend string

	// Model is the model name as requested by the caller.
	Model string

	// StartTime is when the request entered the executor.
	StartTime time.Time

	// Metadata holds opaque caller-supplied key-value pairs, shared
	// read-only across all hooks for the call.
	Metadata map[string]string
}

// NewContext creates a request context with a fresh request id.
func NewContext(ctx context.Context, backend, model string) *Context {
	return &Context{
		Context:   ctx,
		RequestID: uuid.NewString(),
		Backend:   backend,
		Model:     model,
		StartTime: time.Now(),
	}
}

// Plugin is a named, phase-tagged bundle of lifecycle hooks. Implementations
// embed Base and override only the hooks they need. Plugins are shared
// read-only across concurrent requests and must be safe for concurrent use.
type Plugin interface {
	// Name returns the plugin identifier used in errors and logs.
	Name() string

	// Phase returns the execution tier. Base defaults to PhaseNormal.
	Phase() Phase

	// ResolveModel maps a requested model id to a concrete one. Returning ""
	// passes resolution to the next plugin; the first non-empty result wins.
	ResolveModel(ctx *Context, model string) (string, error)

	// LoadTemplate supplies a message template by name. Returning nil passes
	// to the next plugin; the first non-nil result wins.
	LoadTemplate(ctx *Context, name string) ([]types.Message, error)

	// TransformParams rewrites generation parameters before dispatch. Each
	// plugin receives the previous plugin's output.
	TransformParams(ctx *Context, params types.TextParams) (types.TextParams, error)

	// TransformResult rewrites the result after the backend responds.
	TransformResult(ctx *Context, result types.TextResult) (types.TextResult, error)

	// OnRequestStart is invoked concurrently across plugins before any
	// backend I/O. A failure aborts the call.
	OnRequestStart(ctx *Context) error

	// OnRequestEnd is invoked concurrently across plugins after the result
	// has been transformed. A failure aborts the call.
	OnRequestEnd(ctx *Context, result *types.TextResult) error

	// OnError is invoked concurrently across plugins when the connector
	// fails. Errors returned here are discarded; they never mask the
	// original failure.
	OnError(ctx *Context, cause error) error

	// TransformStream wraps a chunk stream. The identity of the wrapped
	// stream is preserved by composition, not replaced.
	TransformStream(stream connector.Stream) connector.Stream
}

// Base provides pass-through defaults for every hook except Name, so
// implementers override only what they need.
type Base struct{}

// Phase returns PhaseNormal.
func (Base) Phase() Phase { return PhaseNormal }

// ResolveModel passes resolution to the next plugin.
func (Base) ResolveModel(_ *Context, _ string) (string, error) { return "", nil }

// LoadTemplate passes template loading to the next plugin.
func (Base) LoadTemplate(_ *Context, _ string) ([]types.Message, error) { return nil, nil }

// TransformParams returns params unchanged.
func (Base) TransformParams(_ *Context, params types.TextParams) (types.TextParams, error) {
	return params, nil
}

// TransformResult returns the result unchanged.
func (Base) TransformResult(_ *Context, result types.TextResult) (types.TextResult, error) {
	return result, nil
}

// OnRequestStart does nothing.
func (Base) OnRequestStart(_ *Context) error { return nil }

// OnRequestEnd does nothing.
func (Base) OnRequestEnd(_ *Context, _ *types.TextResult) error { return nil }

// OnError does nothing.
func (Base) OnError(_ *Context, _ error) error { return nil }

// TransformStream returns the stream unchanged.
func (Base) TransformStream(stream connector.Stream) connector.Stream { return stream }
