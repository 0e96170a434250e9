package stratum

import (
	"context"
	"log/slog"
	"slices"

	"github.com/goccy/go-json"

	"github.com/strataml/stratum/pkg/connector"
	"github.com/strataml/stratum/pkg/errors"
	"github.com/strataml/stratum/pkg/layer"
	"github.com/strataml/stratum/pkg/plugin"
	"github.com/strataml/stratum/pkg/strategy"
	"github.com/strataml/stratum/pkg/types"
)

// Executor is the top-level request orchestrator. It owns the layered
// connector chain, the plugin engine, and the JSON output strategy, all of
// which are immutable after New returns.
//
// Executor is safe for concurrent use by multiple goroutines.
type Executor struct {
	conn     connector.Connector
	engine   *plugin.Engine
	strategy strategy.JSONStrategy
	logger   *slog.Logger
	metadata map[string]string
}

// New builds an executor around base. Layers apply in attachment order per
// WithLayer; when no explicit strategy is set, one is auto-detected from the
// outermost connector's backend id after all layers are applied.
func New(base connector.Connector, opts ...Option) (*Executor, error) {
	if base == nil {
		return nil, errors.NewConfigurationError("connector is nil")
	}

	cfg := defaultBuilderConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	conn := layer.Chain(base, cfg.layers...)

	jsonStrategy := cfg.strategy
	if jsonStrategy == nil {
		jsonStrategy = strategy.Detect(conn.Info().ID)
	}

	e := &Executor{
		conn:     conn,
		engine:   plugin.NewEngine(cfg.plugins...),
		strategy: jsonStrategy,
		logger:   cfg.logger,
		metadata: cfg.metadata,
	}

	e.logger.Debug("executor built",
		"backend", conn.Info().ID,
		"layers", len(cfg.layers),
		"plugins", len(cfg.plugins),
		"strategy", jsonStrategy.Name(),
	)
	return e, nil
}

// Info returns the identity of the outermost connector.
func (e *Executor) Info() connector.Info { return e.conn.Info() }

// Engine returns the plugin engine.
func (e *Executor) Engine() *plugin.Engine { return e.engine }

// GenerateText performs a one-shot text generation through the full plugin
// pipeline: model resolution, parameter transforms, start notifications,
// backend dispatch, result transforms, and end notifications.
func (e *Executor) GenerateText(ctx context.Context, model string, params types.TextParams) (*types.TextResult, error) {
	info := e.conn.Info()
	pctx := e.newContext(ctx, info.ID, model)

	resolved, err := e.engine.ResolveModel(pctx, model)
	if err != nil {
		return nil, err
	}

	params, err = e.engine.TransformParams(pctx, params)
	if err != nil {
		return nil, err
	}

	if err := e.engine.OnRequestStart(pctx); err != nil {
		return nil, err
	}

	req := textRequest(resolved, params)
	resp, err := e.conn.Complete(ctx, req)
	if err != nil {
		// Error reporting is best effort; a broken plugin must never mask
		// the connector failure.
		_ = e.engine.OnError(pctx, err)
		return nil, err
	}

	// Error notifications cover connector failures only; a malformed
	// response is returned to the caller without one.
	result, err := textResult(info.ID, resp)
	if err != nil {
		return nil, err
	}

	transformed, err := e.engine.TransformResult(pctx, *result)
	if err != nil {
		return nil, err
	}

	if err := e.engine.OnRequestEnd(pctx, &transformed); err != nil {
		return nil, err
	}

	return &transformed, nil
}

// GenerateObject performs a one-shot schema-constrained generation. The
// selected JSON strategy rewrites the request before dispatch; the first
// choice's text is then parsed as JSON. Object generation bypasses the
// plugin pipeline entirely — no model resolution, transforms, or lifecycle
// notifications run. This mirrors the text/object asymmetry of the runtime
// design.
func (e *Executor) GenerateObject(ctx context.Context, model string, params types.ObjectParams) (*types.ObjectResult, error) {
	info := e.conn.Info()

	// The strategy rewrites the message list; a cloned slice keeps the
	// caller's params untouched.
	req := &types.ChatRequest{
		Model:       model,
		Messages:    slices.Clone(params.Messages),
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	if err := e.strategy.Apply(req, params.Schema); err != nil {
		return nil, err
	}

	resp, err := e.conn.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.NewProviderError(info.ID, "no choices in response")
	}
	content := resp.Choices[0].Message.Text()

	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return nil, errors.NewSerializationError("model returned malformed JSON: " + err.Error())
	}

	return &types.ObjectResult{
		Object: json.RawMessage(content),
		Usage:  resp.Usage,
		Model:  resp.Model,
	}, nil
}

// StreamText starts a streaming text generation. The plugin pipeline runs up
// to dispatch (model resolution, parameter transforms, start notifications);
// the returned stream is wrapped by each plugin's stream transform in phase
// order, so the last plugin's wrapper is outermost. The caller owns the
// stream and must close it.
func (e *Executor) StreamText(ctx context.Context, model string, params types.TextParams) (connector.Stream, error) {
	info := e.conn.Info()
	pctx := e.newContext(ctx, info.ID, model)

	resolved, err := e.engine.ResolveModel(pctx, model)
	if err != nil {
		return nil, err
	}

	params, err = e.engine.TransformParams(pctx, params)
	if err != nil {
		return nil, err
	}

	if err := e.engine.OnRequestStart(pctx); err != nil {
		return nil, err
	}

	req := textRequest(resolved, params)
	req.Stream = true

	stream, err := e.conn.OpenStream(ctx, req)
	if err != nil {
		_ = e.engine.OnError(pctx, err)
		return nil, err
	}

	return e.engine.TransformStream(stream), nil
}

// LoadTemplate resolves a message template through the first-match template
// hook. Returns nil when no plugin supplies it.
func (e *Executor) LoadTemplate(ctx context.Context, name string) ([]types.Message, error) {
	info := e.conn.Info()
	pctx := e.newContext(ctx, info.ID, "")
	return e.engine.LoadTemplate(pctx, name)
}

func (e *Executor) newContext(ctx context.Context, backend, model string) *plugin.Context {
	pctx := plugin.NewContext(ctx, backend, model)
	pctx.Metadata = e.metadata
	return pctx
}

// textRequest translates resolved params into the backend-agnostic
// completion request: forced non-streaming, forced text response format.
func textRequest(model string, params types.TextParams) *types.ChatRequest {
	return &types.ChatRequest{
		Model:            model,
		Messages:         params.Messages,
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
		Stop:             params.Stop,
		Tools:            params.Tools,
		ResponseFormat:   &types.ResponseFormat{Type: types.FormatText},
		Stream:           false,
		Extra:            params.Extra,
	}
}

// textResult extracts the first choice into a TextResult. A response with no
// choices is a hard error.
func textResult(backend string, resp *types.ChatResponse) (*types.TextResult, error) {
	if len(resp.Choices) == 0 {
		return nil, errors.NewProviderError(backend, "no choices in response")
	}
	choice := resp.Choices[0]

	result := &types.TextResult{
		Content:      choice.Message.Text(),
		FinishReason: choice.FinishReason,
		Usage:        resp.Usage,
		Model:        resp.Model,
	}
	for _, part := range choice.Message.Content {
		if part.Type == types.ContentToolCall && part.ToolCall != nil {
			result.ToolCalls = append(result.ToolCalls, *part.ToolCall)
		}
	}
	return result, nil
}
