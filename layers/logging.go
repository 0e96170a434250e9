package layers

import (
	"context"
	"log/slog"
	"time"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/layer"
	"github.com/strataml/stratum/pkg/types"
)

// LoggingLayer records a structured line before and after each one-shot and
// stream-open call. It never mutates the request or result and never
// retries. Where it sits in the chain matters: outside a retry layer it
// measures the full retried operation, inside it measures only the last
// attempt.
type LoggingLayer struct {
	logger *slog.Logger
	scope  string
}

// LoggingOption configures the LoggingLayer.
type LoggingOption func(*LoggingLayer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoggingOption {
	return func(l *LoggingLayer) { l.logger = logger }
}

// WithScope sets the scope attribute attached to every line.
func WithScope(scope string) LoggingOption {
	return func(l *LoggingLayer) { l.scope = scope }
}

// NewLoggingLayer creates a logging layer.
func NewLoggingLayer(opts ...LoggingOption) *LoggingLayer {
	l := &LoggingLayer{
		logger: slog.Default(),
		scope:  "stratum",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wrap implements layer.Layer.
func (l *LoggingLayer) Wrap(inner connector.Connector) connector.Connector {
	return &loggingConnector{
		Base:   layer.Base{Inner: inner},
		logger: l.logger.With("scope", l.scope),
	}
}

type loggingConnector struct {
	layer.Base
	logger *slog.Logger
}

func (c *loggingConnector) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	c.logger.Debug("completion request",
		"model", req.Model,
		"message_count", len(req.Messages),
	)

	start := time.Now()
	resp, err := c.Inner.Complete(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("completion failed",
			"model", req.Model,
			"error", err,
			"elapsed", elapsed,
		)
		return nil, err
	}

	c.logger.Debug("completion succeeded",
		"model", req.Model,
		"response_id", resp.ID,
		"total_tokens", resp.Usage.TotalTokens,
		"elapsed", elapsed,
	)
	return resp, nil
}

func (c *loggingConnector) OpenStream(ctx context.Context, req *types.ChatRequest) (connector.Stream, error) {
	c.logger.Debug("stream request",
		"model", req.Model,
		"message_count", len(req.Messages),
	)

	start := time.Now()
	stream, err := c.Inner.OpenStream(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("stream open failed",
			"model", req.Model,
			"error", err,
			"elapsed", elapsed,
		)
		return nil, err
	}

	c.logger.Debug("stream opened",
		"model", req.Model,
		"elapsed", elapsed,
	)
	return stream, nil
}
