package strategy

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataml/stratum/pkg/types"
)

var testSchema = json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`)

func TestDetect(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"openai", "json_schema"},
		{"anthropic", "json_schema"},
		{"azure", "json_schema"},
		{"deepseek", "json_prompt"},
		{"unknown-vendor", "json_prompt"},
		{"", "json_prompt"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.backend).Name())
		})
	}
}

func TestSchemaStrategy_Apply(t *testing.T) {
	s := NewSchemaStrategy()
	req := &types.ChatRequest{Model: "test-model"}

	require.NoError(t, s.Apply(req, testSchema))

	require.NotNil(t, req.ResponseFormat)
	require.Equal(t, types.FormatJSONSchema, req.ResponseFormat.Type)
	require.NotNil(t, req.ResponseFormat.JSONSchema)
	assert.Equal(t, "response", req.ResponseFormat.JSONSchema.Name)
	assert.True(t, req.ResponseFormat.JSONSchema.Strict)
	assert.JSONEq(t, string(testSchema), string(req.ResponseFormat.JSONSchema.Schema))
}

func TestSchemaStrategy_Lenient(t *testing.T) {
	s := &SchemaStrategy{Strict: false}
	req := &types.ChatRequest{}

	require.NoError(t, s.Apply(req, testSchema))
	assert.False(t, req.ResponseFormat.JSONSchema.Strict)
}

func TestPromptStrategy_SystemMessagePlacement(t *testing.T) {
	s := NewPromptStrategy()
	req := &types.ChatRequest{
		Messages: []types.Message{types.UserMessage("give me a name")},
	}

	require.NoError(t, s.Apply(req, testSchema))

	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, types.FormatJSONObject, req.ResponseFormat.Type)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, types.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Text(), "valid JSON")
	assert.Contains(t, req.Messages[0].Text(), `"name"`)
	assert.Equal(t, "give me a name", req.Messages[1].Text())
}

func TestPromptStrategy_AppendToUserMessage(t *testing.T) {
	s := &PromptStrategy{UseSystemMessage: false}
	req := &types.ChatRequest{
		Messages: []types.Message{
			types.SystemMessage("be terse"),
			types.UserMessage("give me a name"),
			types.AssistantMessage("sure"),
		},
	}

	require.NoError(t, s.Apply(req, testSchema))

	// Message count unchanged; the most recent user message gains the
	// instruction.
	require.Len(t, req.Messages, 3)
	assert.Contains(t, req.Messages[1].Text(), "give me a name")
	assert.Contains(t, req.Messages[1].Text(), "valid JSON")
	assert.Equal(t, "sure", req.Messages[2].Text())
}

func TestPromptStrategy_AppendLeavesCallerContentAlone(t *testing.T) {
	s := &PromptStrategy{UseSystemMessage: false}

	// Spare capacity in the caller's content slice must not be written
	// through; the request gets its own backing array.
	content := make([]types.ContentPart, 1, 4)
	content[0] = types.TextPart("q")
	req := &types.ChatRequest{
		Messages: []types.Message{{Role: types.RoleUser, Content: content}},
	}

	require.NoError(t, s.Apply(req, testSchema))
	require.Len(t, req.Messages[0].Content, 2)

	content = append(content, types.TextPart("later"))
	assert.Contains(t, req.Messages[0].Content[1].Text, "valid JSON")
	assert.Equal(t, "q", content[0].Text)
	assert.Equal(t, "later", content[1].Text)
}

func TestPromptStrategy_NoUserMessageCreatesOne(t *testing.T) {
	s := &PromptStrategy{UseSystemMessage: false}
	req := &types.ChatRequest{
		Messages: []types.Message{types.SystemMessage("be terse")},
	}

	require.NoError(t, s.Apply(req, testSchema))

	require.Len(t, req.Messages, 2)
	assert.Equal(t, types.RoleUser, req.Messages[1].Role)
	assert.Contains(t, req.Messages[1].Text(), "valid JSON")
}

func TestPromptStrategy_InvalidSchema(t *testing.T) {
	s := NewPromptStrategy()
	req := &types.ChatRequest{}

	err := s.Apply(req, json.RawMessage(`{not json`))
	require.Error(t, err)
}

func TestPromptStrategy_Deterministic(t *testing.T) {
	s := NewPromptStrategy()

	a := &types.ChatRequest{Messages: []types.Message{types.UserMessage("q")}}
	b := &types.ChatRequest{Messages: []types.Message{types.UserMessage("q")}}
	require.NoError(t, s.Apply(a, testSchema))
	require.NoError(t, s.Apply(b, testSchema))

	assert.Equal(t, a, b)
}
