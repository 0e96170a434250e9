package plugins

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataml/stratum/pkg/plugin"
	"github.com/strataml/stratum/pkg/types"
)

func echoTool(name string) *FuncTool {
	return NewFuncTool(name, "echoes its arguments",
		json.RawMessage(`{"type":"object"}`),
		func(_ context.Context, arguments json.RawMessage) (json.RawMessage, error) {
			return arguments, nil
		},
	)
}

func TestToolRegistry_DefinitionsInRegistrationOrder(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(echoTool("beta"))
	reg.Register(echoTool("alpha"))
	reg.Register(echoTool("gamma"))

	defs := reg.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "beta", defs[0].Name)
	assert.Equal(t, "alpha", defs[1].Name)
	assert.Equal(t, "gamma", defs[2].Name)
}

func TestToolRegistry_ReRegisterReplaces(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(echoTool("echo"))
	reg.Register(NewFuncTool("echo", "second version", nil,
		func(_ context.Context, _ json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`"v2"`), nil
		},
	))

	defs := reg.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "second version", defs[0].Description)

	out, err := reg.Execute(context.Background(), "echo", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"v2"`, string(out))
}

func TestToolRegistry_UnknownTool(t *testing.T) {
	reg := NewToolRegistry()
	_, err := reg.Execute(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestToolUsePlugin_InjectsDefinitions(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(echoTool("search"))
	p := NewToolUsePlugin(reg)

	ctx := plugin.NewContext(context.Background(), "backend", "model")
	params, err := p.TransformParams(ctx, types.NewTextParams(types.UserMessage("hi")))
	require.NoError(t, err)
	require.Len(t, params.Tools, 1)
	assert.Equal(t, "search", params.Tools[0].Name)
}

func TestToolUsePlugin_ExplicitToolsLeftAlone(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(echoTool("search"))
	p := NewToolUsePlugin(reg)

	ctx := plugin.NewContext(context.Background(), "backend", "model")
	in := types.NewTextParams(types.UserMessage("hi")).WithTools(types.Tool{Name: "custom"})
	params, err := p.TransformParams(ctx, in)
	require.NoError(t, err)
	require.Len(t, params.Tools, 1)
	assert.Equal(t, "custom", params.Tools[0].Name)
}

func TestToolUsePlugin_ExecutesToolCalls(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(echoTool("echo"))
	p := NewToolUsePlugin(reg)

	ctx := plugin.NewContext(context.Background(), "backend", "model")
	result, err := p.TransformResult(ctx, types.TextResult{
		FinishReason: types.FinishToolCalls,
		ToolCalls: []types.ToolCall{{
			ID:        "call_1",
			Name:      "echo",
			Arguments: json.RawMessage(`{"q":"weather"}`),
		}},
	})
	require.NoError(t, err)
	require.Len(t, result.ToolResults, 1)
	assert.Equal(t, "call_1", result.ToolResults[0].CallID)
	assert.JSONEq(t, `{"q":"weather"}`, string(result.ToolResults[0].Output))
}

func TestToolUsePlugin_SkipsNonToolFinish(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(echoTool("echo"))
	p := NewToolUsePlugin(reg)

	ctx := plugin.NewContext(context.Background(), "backend", "model")
	result, err := p.TransformResult(ctx, types.TextResult{
		FinishReason: types.FinishStop,
		ToolCalls:    []types.ToolCall{{ID: "call_1", Name: "echo"}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.ToolResults)
}

func TestToolUsePlugin_AutoExecuteDisabled(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register(echoTool("echo"))
	p := NewToolUsePlugin(reg, WithAutoExecute(false))

	ctx := plugin.NewContext(context.Background(), "backend", "model")
	result, err := p.TransformResult(ctx, types.TextResult{
		FinishReason: types.FinishToolCalls,
		ToolCalls:    []types.ToolCall{{ID: "call_1", Name: "echo"}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.ToolResults)
}

func TestTemplatePlugin_ServesRegisteredTemplate(t *testing.T) {
	p := NewTemplatePlugin(map[string][]types.Message{
		"greeting": {
			types.SystemMessage("be friendly"),
			types.UserMessage("say hello"),
		},
	})

	ctx := plugin.NewContext(context.Background(), "backend", "model")
	msgs, err := p.LoadTemplate(ctx, "greeting")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleSystem, msgs[0].Role)

	// The returned slice is a copy of the table entry.
	msgs[0] = types.SystemMessage("mutated")
	again, err := p.LoadTemplate(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "be friendly", again[0].Text())
}

func TestTemplatePlugin_UnknownNamePasses(t *testing.T) {
	p := NewTemplatePlugin(map[string][]types.Message{})
	ctx := plugin.NewContext(context.Background(), "backend", "model")
	msgs, err := p.LoadTemplate(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, msgs)
}

func TestTemplatePlugin_Phase(t *testing.T) {
	assert.Equal(t, plugin.PhaseNormal, NewTemplatePlugin(nil).Phase())
	assert.Equal(t, plugin.PhasePre, NewTemplatePlugin(nil, WithTemplatePhase(plugin.PhasePre)).Phase())
}
