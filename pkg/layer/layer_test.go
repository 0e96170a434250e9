package layer

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/types"
)

type baseConnector struct {
	trace *[]string
}

func (b *baseConnector) Info() connector.Info { return connector.Info{ID: "base", Name: "Base"} }

func (b *baseConnector) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	*b.trace = append(*b.trace, "base")
	return &types.ChatResponse{
		ID:      "resp",
		Model:   req.Model,
		Choices: []types.Choice{{Message: types.AssistantMessage("done"), FinishReason: types.FinishStop}},
	}, nil
}

func (b *baseConnector) OpenStream(ctx context.Context, req *types.ChatRequest) (connector.Stream, error) {
	*b.trace = append(*b.trace, "base-stream")
	return emptyStream{}, nil
}

type emptyStream struct{}

func (emptyStream) Next() (*types.StreamChunk, error) { return nil, io.EOF }
func (emptyStream) Close() error                      { return nil }

// tracingLayer records its tag on the way in, before delegating.
type tracingLayer struct {
	tag   string
	trace *[]string
}

func (l *tracingLayer) Wrap(inner connector.Connector) connector.Connector {
	return &tracingConnector{Base: Base{Inner: inner}, tag: l.tag, trace: l.trace}
}

type tracingConnector struct {
	Base
	tag   string
	trace *[]string
}

func (c *tracingConnector) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	*c.trace = append(*c.trace, c.tag)
	return c.Inner.Complete(ctx, req)
}

func TestChain_FirstAttachedIsInnermost(t *testing.T) {
	var trace []string
	base := &baseConnector{trace: &trace}
	conn := Chain(base,
		&tracingLayer{tag: "first", trace: &trace},
		&tracingLayer{tag: "second", trace: &trace},
		&tracingLayer{tag: "third", trace: &trace},
	)

	_, err := conn.Complete(context.Background(), &types.ChatRequest{Model: "m"})
	require.NoError(t, err)

	// Outermost layer runs first, so attachment order is reversed on the
	// way in.
	assert.Equal(t, []string{"third", "second", "first", "base"}, trace)
}

func TestChain_NoLayersReturnsBase(t *testing.T) {
	var trace []string
	base := &baseConnector{trace: &trace}
	conn := Chain(base)
	assert.Same(t, connector.Connector(base), conn)
}

func TestBase_ForwardsUnoverriddenOperations(t *testing.T) {
	var trace []string
	base := &baseConnector{trace: &trace}
	conn := (&tracingLayer{tag: "only", trace: &trace}).Wrap(base)

	// Info and OpenStream are not intercepted by tracingConnector.
	assert.Equal(t, "base", conn.Info().ID)

	stream, err := conn.OpenStream(context.Background(), &types.ChatRequest{Model: "m", Stream: true})
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, []string{"base-stream"}, trace)

	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestChain_WrapDoesNotMutateInner(t *testing.T) {
	var trace []string
	base := &baseConnector{trace: &trace}
	wrapped := Chain(base, &tracingLayer{tag: "a", trace: &trace})

	// The base stays usable on its own after wrapping.
	_, err := base.Complete(context.Background(), &types.ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, trace)

	trace = trace[:0]
	_, err = wrapped.Complete(context.Background(), &types.ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "base"}, trace)
}
