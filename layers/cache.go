package layers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/layer"
	"github.com/strataml/stratum/pkg/types"
)

// CacheLayer serves repeated one-shot completions from an in-memory TTL
// cache. Keys are derived from the serialized request, so any difference in
// model, messages, or sampling parameters misses. Streaming is forwarded
// unchanged; only successful one-shot responses are cached.
type CacheLayer struct {
	ttl    time.Duration
	logger *slog.Logger
}

// CacheOption configures the CacheLayer.
type CacheOption func(*CacheLayer)

// WithTTL sets how long cached responses stay valid.
func WithTTL(ttl time.Duration) CacheOption {
	return func(l *CacheLayer) { l.ttl = ttl }
}

// WithCacheLogger sets the logger for cache events.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(l *CacheLayer) { l.logger = logger }
}

// NewCacheLayer creates a cache layer. Default TTL is 5 minutes.
func NewCacheLayer(opts ...CacheOption) *CacheLayer {
	l := &CacheLayer{
		ttl:    5 * time.Minute,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wrap implements layer.Layer.
func (l *CacheLayer) Wrap(inner connector.Connector) connector.Connector {
	return &cacheConnector{
		Base:   layer.Base{Inner: inner},
		store:  gocache.New(l.ttl, 2*l.ttl),
		ttl:    l.ttl,
		logger: l.logger,
	}
}

type cacheConnector struct {
	layer.Base
	store  *gocache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func (c *cacheConnector) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	key, err := cacheKey(req)
	if err != nil {
		// Unkeyable requests pass through untouched.
		return c.Inner.Complete(ctx, req)
	}

	if cached, ok := c.store.Get(key); ok {
		c.logger.Debug("cache hit", "model", req.Model, "key", key)
		return cached.(*types.ChatResponse), nil
	}

	resp, err := c.Inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, resp, c.ttl)
	return resp, nil
}

func cacheKey(req *types.ChatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
