// Package layer provides build-time composition of connectors with
// cross-cutting behaviors. A layer wraps one connector and yields a new one;
// composition happens exactly once, at executor construction, and is free of
// side effects.
package layer

import (
	"context"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/types"
)

// Layer transforms one connector into another with added behavior.
// Wrap must be pure: no I/O, no mutation of the inner connector.
type Layer interface {
	Wrap(inner connector.Connector) connector.Connector
}

// Chain applies layers in attachment order: the first layer becomes the
// innermost wrapper around base, the last becomes the outermost. Calls from
// the executor therefore pass through layers in reverse-attachment order
// before reaching base.
func Chain(base connector.Connector, layers ...Layer) connector.Connector {
	out := base
	for _, l := range layers {
		out = l.Wrap(out)
	}
	return out
}

// Base is a forwarding adapter for layered connectors. Embed it and override
// only the operations the layer intercepts; everything else reaches the inner
// connector unchanged, preserving its result and error exactly.
type Base struct {
	Inner connector.Connector
}

// Info forwards to the inner connector.
func (b *Base) Info() connector.Info { return b.Inner.Info() }

// Complete forwards to the inner connector.
func (b *Base) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	return b.Inner.Complete(ctx, req)
}

// OpenStream forwards to the inner connector.
func (b *Base) OpenStream(ctx context.Context, req *types.ChatRequest) (connector.Stream, error) {
	return b.Inner.OpenStream(ctx, req)
}
