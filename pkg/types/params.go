package types

import "github.com/goccy/go-json"

// TextParams carries caller-supplied generation parameters for text requests.
// Hooks receive and return a value copy, so a failing plugin chain never
// leaves a half-mutated params in the caller's hands.
type TextParams struct {
	Messages         []Message                  `json:"messages"`
	MaxTokens        int                        `json:"max_tokens,omitempty"`
	Temperature      *float64                   `json:"temperature,omitempty"`
	TopP             *float64                   `json:"top_p,omitempty"`
	FrequencyPenalty *float64                   `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64                   `json:"presence_penalty,omitempty"`
	Stop             []string                   `json:"stop,omitempty"`
	Tools            []Tool                     `json:"tools,omitempty"`
	Extra            map[string]json.RawMessage `json:"-"`
}

// NewTextParams creates text parameters for the given conversation.
func NewTextParams(messages ...Message) TextParams {
	return TextParams{Messages: messages}
}

// WithMaxTokens sets the generation token budget.
func (p TextParams) WithMaxTokens(n int) TextParams {
	p.MaxTokens = n
	return p
}

// WithTemperature sets the sampling temperature.
func (p TextParams) WithTemperature(t float64) TextParams {
	p.Temperature = &t
	return p
}

// WithTools sets the tool definitions available to the model.
func (p TextParams) WithTools(tools ...Tool) TextParams {
	p.Tools = tools
	return p
}

// ObjectParams carries parameters for schema-constrained object generation.
type ObjectParams struct {
	Messages    []Message       `json:"messages"`
	Schema      json.RawMessage `json:"schema"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

// FinishReason explains why the model stopped generating.
type FinishReason string

// Finish reasons.
const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishContentFilter FinishReason = "content_filter"
)

// Usage contains token usage statistics for a request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TextResult is the outcome of a text generation call.
type TextResult struct {
	Content      string       `json:"content"`
	FinishReason FinishReason `json:"finish_reason"`
	Usage        Usage        `json:"usage"`
	Model        string       `json:"model"`
	ToolCalls    []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults  []ToolResult `json:"tool_results,omitempty"`
}

// ToolResult pairs a tool call with the output of executing it.
type ToolResult struct {
	CallID string          `json:"call_id"`
	Name   string          `json:"name"`
	Output json.RawMessage `json:"output"`
}

// ObjectResult is the outcome of an object generation call. Object holds the
// raw JSON produced by the model, already validated to parse.
type ObjectResult struct {
	Object json.RawMessage `json:"object"`
	Usage  Usage           `json:"usage"`
	Model  string          `json:"model"`
}
