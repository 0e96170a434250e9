package layers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/errors"
	"github.com/strataml/stratum/pkg/layer"
	"github.com/strataml/stratum/pkg/types"
)

// RetryLayer retries failed one-shot and stream-open calls with exponential
// backoff. Only retryable failures (network, timeout, rate limit) are
// retried; everything else returns immediately regardless of remaining
// budget. Once a stream has begun delivering chunks, mid-stream failures are
// never retried — an in-progress stream cannot be re-issued without
// duplicating already-delivered content.
type RetryLayer struct {
	maxRetries   uint64
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	logger       *slog.Logger

	// timer overrides the backoff wait mechanism, for tests.
	timer backoff.Timer
}

// RetryOption configures the RetryLayer.
type RetryOption func(*RetryLayer)

// WithMaxRetries sets the maximum number of retries after the first attempt.
func WithMaxRetries(n uint64) RetryOption {
	return func(l *RetryLayer) { l.maxRetries = n }
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) RetryOption {
	return func(l *RetryLayer) { l.initialDelay = d }
}

// WithMaxDelay caps the backoff delay.
func WithMaxDelay(d time.Duration) RetryOption {
	return func(l *RetryLayer) { l.maxDelay = d }
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(m float64) RetryOption {
	return func(l *RetryLayer) { l.multiplier = m }
}

// WithRetryLogger sets the logger for retry events.
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(l *RetryLayer) { l.logger = logger }
}

// NewRetryLayer creates a retry layer. Defaults: 3 retries, 100ms initial
// delay, 10s cap, 2.0 multiplier.
func NewRetryLayer(opts ...RetryOption) *RetryLayer {
	l := &RetryLayer{
		maxRetries:   3,
		initialDelay: 100 * time.Millisecond,
		maxDelay:     10 * time.Second,
		multiplier:   2.0,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wrap implements layer.Layer.
func (l *RetryLayer) Wrap(inner connector.Connector) connector.Connector {
	return &retryConnector{Base: layer.Base{Inner: inner}, cfg: l}
}

type retryConnector struct {
	layer.Base
	cfg *RetryLayer
}

// Complete retries the inner one-shot call on retryable failures.
func (c *retryConnector) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	var resp *types.ChatResponse
	err := c.cfg.run(ctx, "complete", func() error {
		r, err := c.Inner.Complete(ctx, req)
		if err != nil {
			return classify(err)
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// OpenStream retries only the initial stream-open call.
func (c *retryConnector) OpenStream(ctx context.Context, req *types.ChatRequest) (connector.Stream, error) {
	var stream connector.Stream
	err := c.cfg.run(ctx, "open_stream", func() error {
		s, err := c.Inner.OpenStream(ctx, req)
		if err != nil {
			return classify(err)
		}
		stream = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// classify marks terminal errors permanent so the backoff loop stops
// immediately.
func classify(err error) error {
	if errors.IsRetryable(err) {
		return err
	}
	return backoff.Permanent(err)
}

func (l *RetryLayer) run(ctx context.Context, op string, fn backoff.Operation) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = l.initialDelay
	eb.Multiplier = l.multiplier
	eb.MaxInterval = l.maxDelay
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	eb.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, l.maxRetries), ctx)
	notify := func(err error, delay time.Duration) {
		l.logger.Debug("retrying backend call",
			"operation", op,
			"delay", delay,
			"error", err,
		)
	}

	if l.timer != nil {
		return backoff.RetryNotifyWithTimer(fn, policy, notify, l.timer)
	}
	return backoff.RetryNotify(fn, policy, notify)
}
