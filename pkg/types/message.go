// Package types defines core data structures for LLM requests and responses.
// All connectors consume and produce these types; the runtime never sees a
// backend wire format.
package types

import (
	"strings"

	"github.com/goccy/go-json"
)

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentType discriminates the variants of a ContentPart.
type ContentType string

// Content part variants.
const (
	ContentText       ContentType = "text"
	ContentImage      ContentType = "image"
	ContentToolCall   ContentType = "tool_call"
	ContentToolResult ContentType = "tool_result"
)

// ContentPart is one piece of message content. Exactly one of the variant
// fields is populated, selected by Type.
type ContentPart struct {
	Type ContentType `json:"type"`

	Text     string          `json:"text,omitempty"`
	ImageURL string          `json:"url,omitempty"`
	ToolCall *ToolCall       `json:"tool_call,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentText, Text: text}
}

// ToolCall represents a function invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role          `json:"role"`
	Content []ContentPart `json:"content"`
	Name    string        `json:"name,omitempty"`
}

// SystemMessage creates a system message with text content.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: []ContentPart{TextPart(text)}}
}

// UserMessage creates a user message with text content.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentPart{TextPart(text)}}
}

// AssistantMessage creates an assistant message with text content.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentPart{TextPart(text)}}
}

// Text concatenates all textual content parts of the message.
// Non-text parts are skipped.
func (m Message) Text() string {
	var sb strings.Builder
	for _, part := range m.Content {
		if part.Type == ContentText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// Tool represents a function definition offered to the model.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}
