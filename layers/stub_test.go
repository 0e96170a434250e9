package layers

import (
	"context"
	"io"
	"time"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/types"
)

// stubConnector is a scriptable backend for layer tests.
type stubConnector struct {
	info       connector.Info
	completeFn func(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)
	streamFn   func(ctx context.Context, req *types.ChatRequest) (connector.Stream, error)

	completeCalls int
	streamCalls   int
}

func (s *stubConnector) Info() connector.Info {
	if s.info.ID == "" {
		return connector.Info{ID: "stub", Name: "Stub"}
	}
	return s.info
}

func (s *stubConnector) Complete(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	s.completeCalls++
	return s.completeFn(ctx, req)
}

func (s *stubConnector) OpenStream(ctx context.Context, req *types.ChatRequest) (connector.Stream, error) {
	s.streamCalls++
	if s.streamFn == nil {
		return &sliceStream{}, nil
	}
	return s.streamFn(ctx, req)
}

// sliceStream replays a fixed chunk sequence.
type sliceStream struct {
	chunks []types.StreamChunk
	pos    int
}

func (s *sliceStream) Next() (*types.StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return &chunk, nil
}

func (s *sliceStream) Close() error { return nil }

func okResponse(content string) *types.ChatResponse {
	return &types.ChatResponse{
		ID:    "resp-1",
		Model: "test-model",
		Choices: []types.Choice{{
			Message:      types.AssistantMessage(content),
			FinishReason: types.FinishStop,
		}},
		Usage: types.Usage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8},
	}
}

// recordingTimer fires immediately and records every requested delay.
type recordingTimer struct {
	delays []time.Duration
	ch     chan time.Time
}

func (t *recordingTimer) Start(d time.Duration) {
	t.delays = append(t.delays, d)
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	t.ch = ch
}

func (t *recordingTimer) Stop() {}

func (t *recordingTimer) C() <-chan time.Time { return t.ch }
