// Package stratum is a middleware-composition runtime for calling LLM
// backends through a uniform request/response contract. A backend connector
// is wrapped with cross-cutting layers (retry, logging, caching, metrics) at
// construction time, and plugins hook into the request lifecycle with
// well-defined ordering, concurrency, and failure semantics.
//
// Basic usage:
//
//	exec, err := stratum.New(conn,
//	    stratum.WithLayer(layers.NewRetryLayer()),
//	    stratum.WithLayer(layers.NewLoggingLayer()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := exec.GenerateText(ctx, "gpt-4o",
//	    stratum.NewTextParams(stratum.UserMessage("What is Go?")),
//	)
package stratum

import (
	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/errors"
	"github.com/strataml/stratum/pkg/layer"
	"github.com/strataml/stratum/pkg/plugin"
	"github.com/strataml/stratum/pkg/strategy"
	"github.com/strataml/stratum/pkg/types"
)

// Version is the current version of stratum.
const Version = "0.1.0"

// Re-export core request/response types for convenience.
type (
	// Message represents a single message in the conversation.
	Message = types.Message

	// ContentPart is one piece of message content.
	ContentPart = types.ContentPart

	// Role identifies the author of a message.
	Role = types.Role

	// Tool represents a function definition offered to the model.
	Tool = types.Tool

	// ToolCall represents a function invocation requested by the model.
	ToolCall = types.ToolCall

	// TextParams carries generation parameters for text requests.
	TextParams = types.TextParams

	// TextResult is the outcome of a text generation call.
	TextResult = types.TextResult

	// ObjectParams carries parameters for object generation.
	ObjectParams = types.ObjectParams

	// ObjectResult is the outcome of an object generation call.
	ObjectResult = types.ObjectResult

	// Usage contains token usage statistics.
	Usage = types.Usage

	// FinishReason explains why the model stopped generating.
	FinishReason = types.FinishReason

	// ChatRequest is the backend-agnostic completion request.
	ChatRequest = types.ChatRequest

	// ChatResponse is the backend-agnostic completion response.
	ChatResponse = types.ChatResponse

	// StreamChunk is a single incremental delta from a streaming completion.
	StreamChunk = types.StreamChunk
)

// Re-export contract types.
type (
	// Connector is a backend capable of one-shot and streaming completion.
	Connector = connector.Connector

	// ConnectorInfo identifies a backend.
	ConnectorInfo = connector.Info

	// Stream delivers completion chunks incrementally.
	Stream = connector.Stream

	// Layer transforms one connector into another with added behavior.
	Layer = layer.Layer

	// Plugin is a named, phase-tagged bundle of lifecycle hooks.
	Plugin = plugin.Plugin

	// PluginContext carries per-request identity into every hook.
	PluginContext = plugin.Context

	// PluginPhase controls plugin execution precedence.
	PluginPhase = plugin.Phase

	// JSONStrategy selects how structured output is requested.
	JSONStrategy = strategy.JSONStrategy

	// Error is the standardized failure type for all stages.
	Error = errors.Error
)

// Re-export plugin phases.
const (
	PhasePre    = plugin.PhasePre
	PhaseNormal = plugin.PhaseNormal
	PhasePost   = plugin.PhasePost
)

// Re-export message constructors.
var (
	SystemMessage    = types.SystemMessage
	UserMessage      = types.UserMessage
	AssistantMessage = types.AssistantMessage
	NewTextParams    = types.NewTextParams
)

// Re-export error helpers.
var (
	IsRetryable = errors.IsRetryable
	KindOf      = errors.KindOf
)
