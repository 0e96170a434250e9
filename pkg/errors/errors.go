// Package errors defines unified error types for stratum operations.
// Connector, layer, and plugin failures are all mapped to the same
// standardized shape so callers can classify them without knowing which
// stage produced them.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies the failure category of an Error.
type Kind string

// Failure categories.
const (
	KindProvider       Kind = "provider_error"
	KindNetwork        Kind = "network_error"
	KindSerialization  Kind = "serialization_error"
	KindAuthentication Kind = "authentication_error"
	KindRateLimit      Kind = "rate_limit_error"
	KindInvalidRequest Kind = "invalid_request_error"
	KindModelNotFound  Kind = "model_not_found_error"
	KindTimeout        Kind = "timeout_error"
	KindPlugin         Kind = "plugin_error"
	KindLayer          Kind = "layer_error"
	KindConfiguration  Kind = "configuration_error"
	KindStream         Kind = "stream_error"
	KindUnsupported    Kind = "unsupported_operation"
	KindOther          Kind = "internal_error"
)

// Error represents a standardized failure from any stage of a request.
// It carries enough context (backend id, failing component) to diagnose
// which stage produced it.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Backend string `json:"backend,omitempty"`
	// Component is the plugin or layer name for KindPlugin/KindLayer errors.
	Component string `json:"component,omitempty"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Component != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Component, e.Message)
	case e.Backend != "":
		return fmt.Sprintf("[%s] %s (backend=%s)", e.Kind, e.Message, e.Backend)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether the failure is transient. Exactly network,
// timeout, and rate-limit failures qualify.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout, KindRateLimit:
		return true
	default:
		return false
	}
}

// WithCause attaches an underlying error for errors.Is/As chains.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// IsRetryable reports whether err is a retryable *Error.
// Untyped errors are treated as terminal.
func IsRetryable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Retryable()
	}
	return false
}

// KindOf returns the Kind of err, or KindOther when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// NewProviderError creates a backend-level failure.
func NewProviderError(backend, message string) *Error {
	return &Error{Kind: KindProvider, Backend: backend, Message: message}
}

// NewNetworkError creates a transport failure. Retryable.
func NewNetworkError(backend, message string) *Error {
	return &Error{Kind: KindNetwork, Backend: backend, Message: message}
}

// NewSerializationError creates an encoding/decoding failure.
func NewSerializationError(message string) *Error {
	return &Error{Kind: KindSerialization, Message: message}
}

// NewAuthenticationError creates a credential failure.
func NewAuthenticationError(backend, message string) *Error {
	return &Error{Kind: KindAuthentication, Backend: backend, Message: message}
}

// NewRateLimitError creates a quota failure. Retryable.
func NewRateLimitError(backend, message string) *Error {
	return &Error{Kind: KindRateLimit, Backend: backend, Message: message}
}

// NewInvalidRequestError creates a malformed-request failure.
func NewInvalidRequestError(backend, message string) *Error {
	return &Error{Kind: KindInvalidRequest, Backend: backend, Message: message}
}

// NewModelNotFoundError creates an unknown-model failure.
func NewModelNotFoundError(backend, model string) *Error {
	return &Error{Kind: KindModelNotFound, Backend: backend, Message: fmt.Sprintf("model not found: %s", model)}
}

// NewTimeoutError creates a deadline failure. Retryable.
func NewTimeoutError(backend, message string) *Error {
	return &Error{Kind: KindTimeout, Backend: backend, Message: message}
}

// NewPluginError creates a failure attributed to a named plugin.
func NewPluginError(plugin, message string) *Error {
	return &Error{Kind: KindPlugin, Component: plugin, Message: message}
}

// NewLayerError creates a failure attributed to a named layer.
func NewLayerError(layer, message string) *Error {
	return &Error{Kind: KindLayer, Component: layer, Message: message}
}

// NewConfigurationError creates a build-time configuration failure.
func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NewStreamError creates a mid-stream failure.
func NewStreamError(backend, message string) *Error {
	return &Error{Kind: KindStream, Backend: backend, Message: message}
}

// NewUnsupportedError creates an unsupported-operation failure.
func NewUnsupportedError(backend, message string) *Error {
	return &Error{Kind: KindUnsupported, Backend: backend, Message: message}
}

// NewInternalError creates a generic failure.
func NewInternalError(message string) *Error {
	return &Error{Kind: KindOther, Message: message}
}
