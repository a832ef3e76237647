package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/voicemention/httpclient/rest"
	"github.com/kbukum/voicemention/provider"
)

// Adapter is a provider.RequestResponse for chat completions.
type Adapter struct {
	rest     *rest.Client
	dialect  Dialect
	defaults CompletionRequest
}

var _ provider.RequestResponse[CompletionRequest, CompletionResponse] = (*Adapter)(nil)

// New looks cfg.Dialect up in the registry.
func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	d, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(d, cfg)
}

func NewWithDialect(d Dialect, cfg Config) (*Adapter, error) {
	if d == nil {
		return nil, errors.New("llm: dialect is required")
	}
	if cfg.Name == "" {
		cfg.Name = d.Name() + "-llm"
	}
	cfg.ApplyDefaults()

	client, err := rest.New(cfg.httpConfig())
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	return &Adapter{
		rest:    client,
		dialect: d,
		defaults: CompletionRequest{
			Model:       cfg.Model,
			Temperature: Temperature(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
			JSONMode:    cfg.JSONMode,
		},
	}, nil
}

func (a *Adapter) Name() string { return a.rest.Name() }

// IsAvailable GETs the dialect's health path, or reports the circuit state
// when the dialect has none.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	path := a.dialect.HealthPath()
	if path == "" {
		return a.rest.IsAvailable(ctx)
	}
	_, err := rest.Get[json.RawMessage](ctx, a.rest, path)
	return err == nil
}

func (a *Adapter) Close(ctx context.Context) error { return a.rest.Close(ctx) }

// Execute fills unset fields from the configuration and posts the request.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if req.Model == "" {
		req.Model = a.defaults.Model
	}
	if req.Temperature == nil {
		req.Temperature = a.defaults.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.defaults.MaxTokens
	}
	req.JSONMode = req.JSONMode || a.defaults.JSONMode

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build %s request: %w", a.dialect.Name(), err)
	}
	resp, err := rest.Post[json.RawMessage](ctx, a.rest, a.dialect.ChatPath(), body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: %s: %w", a.Name(), err)
	}
	out, err := a.dialect.ParseResponse(resp.Body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse %s reply: %w", a.dialect.Name(), err)
	}
	return *out, nil
}
