package types

import "github.com/goccy/go-json"

// Response format types.
const (
	FormatText       = "text"
	FormatJSONObject = "json_object"
	FormatJSONSchema = "json_schema"
)

// ResponseFormat directs the backend's output mode. JSONSchema is populated
// only when Type is FormatJSONSchema.
type ResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

// JSONSchemaFormat carries a named schema descriptor for strict JSON output.
type JSONSchemaFormat struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

// ChatRequest is the backend-agnostic completion request consumed by
// connectors. It is built by the executor; layers may observe it but a
// layer that does not intercept an operation forwards it unchanged.
type ChatRequest struct {
	Model            string                     `json:"model"`
	Messages         []Message                  `json:"messages"`
	Temperature      *float64                   `json:"temperature,omitempty"`
	MaxTokens        int                        `json:"max_tokens,omitempty"`
	TopP             *float64                   `json:"top_p,omitempty"`
	FrequencyPenalty *float64                   `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64                   `json:"presence_penalty,omitempty"`
	Stop             []string                   `json:"stop,omitempty"`
	Tools            []Tool                     `json:"tools,omitempty"`
	ResponseFormat   *ResponseFormat            `json:"response_format,omitempty"`
	Stream           bool                       `json:"stream,omitempty"`
	Extra            map[string]json.RawMessage `json:"-"`
}

// Choice is a single completion alternative in a response.
type Choice struct {
	Index        int          `json:"index"`
	Message      Message      `json:"message"`
	FinishReason FinishReason `json:"finish_reason"`
}

// ChatResponse is the backend-agnostic completion response.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
	Created int64    `json:"created,omitempty"`
}

// StreamChunk is a single incremental delta from a streaming completion.
// FinishReason is empty until the terminal chunk; Usage, when present, is
// cumulative.
type StreamChunk struct {
	Delta        string       `json:"delta"`
	FinishReason FinishReason `json:"finish_reason,omitempty"`
	Usage        *Usage       `json:"usage,omitempty"`
}
