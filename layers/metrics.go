package layers

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/errors"
	"github.com/strataml/stratum/pkg/layer"
	"github.com/strataml/stratum/pkg/types"
)

const metricsNamespace = "stratum"

// MetricsLayer records Prometheus counters and latency histograms for
// one-shot and stream-open calls, labeled by backend id and outcome.
type MetricsLayer struct {
	registerer prometheus.Registerer
}

// MetricsOption configures the MetricsLayer.
type MetricsOption func(*MetricsLayer)

// WithRegisterer sets the Prometheus registerer. Defaults to the global
// registerer.
func WithRegisterer(r prometheus.Registerer) MetricsOption {
	return func(l *MetricsLayer) { l.registerer = r }
}

// NewMetricsLayer creates a metrics layer.
func NewMetricsLayer(opts ...MetricsOption) *MetricsLayer {
	l := &MetricsLayer{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wrap implements layer.Layer.
func (l *MetricsLayer) Wrap(inner connector.Connector) connector.Connector {
	factory := promauto.With(l.registerer)
	return &metricsConnector{
		Base: layer.Base{Inner: inner},
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "Total backend calls by operation and outcome",
			},
			[]string{"backend", "operation", "outcome"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "request_failures_total",
				Help:      "Failed backend calls by error kind",
			},
			[]string{"backend", "operation", "kind"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "Backend call latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "tokens_total",
				Help:      "Tokens consumed by completed requests",
			},
			[]string{"backend", "type"},
		),
	}
}

type metricsConnector struct {
	layer.Base
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

func (c *metricsConnector) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	backend := c.Inner.Info().ID
	start := time.Now()

	resp, err := c.Inner.Complete(ctx, req)
	c.latency.WithLabelValues(backend, "complete").Observe(time.Since(start).Seconds())

	if err != nil {
		c.requests.WithLabelValues(backend, "complete", "error").Inc()
		c.failures.WithLabelValues(backend, "complete", string(errors.KindOf(err))).Inc()
		return nil, err
	}

	c.requests.WithLabelValues(backend, "complete", "success").Inc()
	c.tokens.WithLabelValues(backend, "prompt").Add(float64(resp.Usage.PromptTokens))
	c.tokens.WithLabelValues(backend, "completion").Add(float64(resp.Usage.CompletionTokens))
	return resp, nil
}

func (c *metricsConnector) OpenStream(ctx context.Context, req *types.ChatRequest) (connector.Stream, error) {
	backend := c.Inner.Info().ID
	start := time.Now()

	stream, err := c.Inner.OpenStream(ctx, req)
	c.latency.WithLabelValues(backend, "open_stream").Observe(time.Since(start).Seconds())

	if err != nil {
		c.requests.WithLabelValues(backend, "open_stream", "error").Inc()
		c.failures.WithLabelValues(backend, "open_stream", string(errors.KindOf(err))).Inc()
		return nil, err
	}

	c.requests.WithLabelValues(backend, "open_stream", "success").Inc()
	return stream, nil
}
