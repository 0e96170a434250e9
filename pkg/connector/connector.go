// Package connector defines the abstract contract between the runtime and a
// backend. The runtime consumes connectors; it never implements one. Wire
// formats, authentication, and transport belong to the connector
// implementation, outside this module.
package connector

import (
	"context"
	"io"

	"github.com/strataml/stratum/pkg/types"
)

// Info identifies a backend. It must be stable and cheap to produce;
// implementations must not perform I/O.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Connector is a backend capable of one-shot and streaming completion.
// Implementations must be safe for concurrent use.
type Connector interface {
	// Info returns the backend identity.
	Info() Info

	// Complete performs a one-shot completion. The request's Stream flag is
	// ignored by this method.
	Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)

	// OpenStream starts a streaming completion. Chunk errors terminate the
	// stream.
	OpenStream(ctx context.Context, req *types.ChatRequest) (Stream, error)
}

// Stream delivers completion chunks incrementally.
type Stream interface {
	// Next returns the next chunk, or io.EOF when the stream is complete.
	Next() (*types.StreamChunk, error)

	// Close releases resources associated with the stream.
	Close() error
}

// CollectStream drains a stream into a single TextResult: deltas are
// concatenated, the last finish reason and the last cumulative usage win.
// The stream is closed before returning.
func CollectStream(stream Stream, model string) (*types.TextResult, error) {
	defer stream.Close()

	result := &types.TextResult{
		FinishReason: types.FinishStop,
		Model:        model,
	}

	var sb []byte
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		sb = append(sb, chunk.Delta...)
		if chunk.FinishReason != "" {
			result.FinishReason = chunk.FinishReason
		}
		if chunk.Usage != nil {
			result.Usage = *chunk.Usage
		}
	}

	result.Content = string(sb)
	return result, nil
}
