// Package strategy selects how structured JSON output is requested from a
// backend. Backends with native schema support get a strict schema
// descriptor; everything else gets basic JSON mode with the schema injected
// into the prompt.
package strategy

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/strataml/stratum/pkg/errors"
	"github.com/strataml/stratum/pkg/types"
)

// JSONStrategy mutates an outgoing request to enable JSON output for a
// particular backend. Apply must be deterministic for a given schema and
// configuration, and must only be used on a freshly built request.
type JSONStrategy interface {
	// Name returns the strategy identifier for debugging.
	Name() string

	// Apply rewrites req to request JSON output constrained by schema.
	Apply(req *types.ChatRequest, schema json.RawMessage) error
}

// SchemaStrategy targets backends that support strict JSON Schema response
// formats. The caller's schema is carried verbatim.
type SchemaStrategy struct {
	// Strict enables strict schema validation on the backend.
	Strict bool
}

// NewSchemaStrategy creates a schema strategy with strict mode enabled.
func NewSchemaStrategy() *SchemaStrategy {
	return &SchemaStrategy{Strict: true}
}

// Name implements JSONStrategy.
func (s *SchemaStrategy) Name() string { return "json_schema" }

// Apply sets the request's response format to a named schema descriptor.
func (s *SchemaStrategy) Apply(req *types.ChatRequest, schema json.RawMessage) error {
	req.ResponseFormat = &types.ResponseFormat{
		Type: types.FormatJSONSchema,
		JSONSchema: &types.JSONSchemaFormat{
			Name:   "response",
			Schema: schema,
			Strict: s.Strict,
		},
	}
	return nil
}

// PromptStrategy targets backends without schema support: it enables basic
// JSON object mode and embeds the pretty-printed schema in a textual
// instruction.
type PromptStrategy struct {
	// UseSystemMessage injects the instruction as a new leading system
	// message. When false, the instruction is appended to the most recent
	// user message, or to a new user message when none exists.
	UseSystemMessage bool
}

// NewPromptStrategy creates a prompt-injection strategy that uses a system
// message.
func NewPromptStrategy() *PromptStrategy {
	return &PromptStrategy{UseSystemMessage: true}
}

// Name implements JSONStrategy.
func (s *PromptStrategy) Name() string { return "json_prompt" }

// Apply enables JSON object mode and injects the schema instruction.
func (s *PromptStrategy) Apply(req *types.ChatRequest, schema json.RawMessage) error {
	req.ResponseFormat = &types.ResponseFormat{Type: types.FormatJSONObject}

	instruction, err := buildInstruction(schema)
	if err != nil {
		return err
	}

	if s.UseSystemMessage {
		messages := make([]types.Message, 0, len(req.Messages)+1)
		messages = append(messages, types.SystemMessage(instruction))
		messages = append(messages, req.Messages...)
		req.Messages = messages
		return nil
	}

	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == types.RoleUser {
			// Rebuild the content slice so the caller's message is never
			// mutated through a shared backing array.
			content := make([]types.ContentPart, len(req.Messages[i].Content), len(req.Messages[i].Content)+1)
			copy(content, req.Messages[i].Content)
			req.Messages[i].Content = append(content, types.TextPart("\n\n"+instruction))
			return nil
		}
	}

	req.Messages = append(req.Messages, types.UserMessage(instruction))
	return nil
}

func buildInstruction(schema json.RawMessage) (string, error) {
	var decoded any
	if err := json.Unmarshal(schema, &decoded); err != nil {
		return "", errors.NewSerializationError(fmt.Sprintf("invalid schema: %v", err))
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return "", errors.NewSerializationError(fmt.Sprintf("encode schema: %v", err))
	}

	return fmt.Sprintf("You must respond with valid JSON that matches this schema:\n```json\n%s\n```\n\n"+
		"IMPORTANT:\n"+
		"1. Only return the JSON object, nothing else\n"+
		"2. Ensure all required fields are present\n"+
		"3. Follow the schema structure exactly\n"+
		"4. Use the correct data types for each field", pretty), nil
}

// Detect returns the recommended strategy for a backend id. Unrecognized
// backends get the prompt strategy, the conservative default.
func Detect(backendID string) JSONStrategy {
	switch backendID {
	case "openai", "anthropic", "azure":
		return NewSchemaStrategy()
	case "deepseek":
		return NewPromptStrategy()
	default:
		return NewPromptStrategy()
	}
}
