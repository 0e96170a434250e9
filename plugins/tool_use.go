// Package plugins provides built-in runtime plugins: tool definition
// injection and static message templates.
package plugins

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/strataml/stratum/pkg/errors"
	"github.com/strataml/stratum/pkg/plugin"
	"github.com/strataml/stratum/pkg/types"
)

// ToolExecutor runs a named tool with JSON arguments.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, arguments json.RawMessage) (json.RawMessage, error)
}

// FuncTool is a single tool backed by a Go function.
type FuncTool struct {
	name        string
	description string
	parameters  json.RawMessage
	fn          func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error)
}

// NewFuncTool creates a function-backed tool.
func NewFuncTool(
	name, description string,
	parameters json.RawMessage,
	fn func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error),
) *FuncTool {
	return &FuncTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Definition returns the tool definition offered to the model.
func (t *FuncTool) Definition() types.Tool {
	return types.Tool{
		Name:        t.name,
		Description: t.description,
		Parameters:  t.parameters,
	}
}

// Execute implements ToolExecutor.
func (t *FuncTool) Execute(ctx context.Context, name string, arguments json.RawMessage) (json.RawMessage, error) {
	if name != t.name {
		return nil, errors.NewPluginError("tool_use", fmt.Sprintf("tool %s not found", name))
	}
	return t.fn(ctx, arguments)
}

// ToolRegistry holds the tools available to the model.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*FuncTool
	order []string
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]*FuncTool)}
}

// Register adds a tool. Re-registering a name replaces the previous tool.
func (r *ToolRegistry) Register(tool *FuncTool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.name]; !exists {
		r.order = append(r.order, tool.name)
	}
	r.tools[tool.name] = tool
}

// Definitions returns all tool definitions in registration order.
func (r *ToolRegistry) Definitions() []types.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]types.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute runs a registered tool by name.
func (r *ToolRegistry) Execute(ctx context.Context, name string, arguments json.RawMessage) (json.RawMessage, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewPluginError("tool_use", fmt.Sprintf("tool %s not found", name))
	}
	return tool.Execute(ctx, name, arguments)
}

// ToolUsePlugin injects registered tool definitions into outgoing requests
// and executes tool calls found in results. It runs in the Pre phase so
// later plugins observe the final tool list.
type ToolUsePlugin struct {
	plugin.Base
	registry    *ToolRegistry
	autoExecute bool
}

// ToolUseOption configures the ToolUsePlugin.
type ToolUseOption func(*ToolUsePlugin)

// WithAutoExecute controls whether tool calls in results are executed.
// Enabled by default.
func WithAutoExecute(enabled bool) ToolUseOption {
	return func(p *ToolUsePlugin) { p.autoExecute = enabled }
}

// NewToolUsePlugin creates a tool use plugin backed by registry.
func NewToolUsePlugin(registry *ToolRegistry, opts ...ToolUseOption) *ToolUsePlugin {
	p := &ToolUsePlugin{registry: registry, autoExecute: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Plugin.
func (p *ToolUsePlugin) Name() string { return "tool_use" }

// Phase implements plugin.Plugin.
func (p *ToolUsePlugin) Phase() plugin.Phase { return plugin.PhasePre }

// TransformParams adds registered tool definitions to the request. Params
// with an explicit tool list are left alone.
func (p *ToolUsePlugin) TransformParams(_ *plugin.Context, params types.TextParams) (types.TextParams, error) {
	if len(params.Tools) > 0 {
		return params, nil
	}
	if defs := p.registry.Definitions(); len(defs) > 0 {
		params.Tools = defs
	}
	return params, nil
}

// TransformResult executes any tool calls in the result and attaches their
// outputs to the result's tool result list.
func (p *ToolUsePlugin) TransformResult(ctx *plugin.Context, result types.TextResult) (types.TextResult, error) {
	if !p.autoExecute || result.FinishReason != types.FinishToolCalls {
		return result, nil
	}

	for _, call := range result.ToolCalls {
		out, err := p.registry.Execute(ctx, call.Name, call.Arguments)
		if err != nil {
			return result, err
		}
		result.ToolResults = append(result.ToolResults, types.ToolResult{
			CallID: call.ID,
			Name:   call.Name,
			Output: out,
		})
	}
	return result, nil
}
