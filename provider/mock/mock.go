// Package mock provides a Provider test double.
package mock

import (
	"context"
	"sync/atomic"

	"github.com/ineyio/sidekick"
)

// Provider is a mock completion service for testing.
type Provider struct {
	models       []sidekick.ModelInfo
	callCount    atomic.Int64
	staticErr    error
	loadErr      error
	usage        sidekick.Usage
	responseFunc func(sidekick.CompletionRequest) (sidekick.CompletionResponse, error)
}

var _ sidekick.Provider = (*Provider)(nil)

// Option configures a mock Provider.
type Option func(*Provider)

// New creates a mock provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		models: []sidekick.ModelInfo{{ID: "mock-model"}},
		usage: sidekick.Usage{
			PromptTokens:     10,
			CompletionTokens: 20,
			TotalTokens:      30,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithModels sets the model identifiers the mock reports.
func WithModels(ids ...string) Option {
	return func(p *Provider) {
		p.models = p.models[:0]
		for _, id := range ids {
			p.models = append(p.models, sidekick.ModelInfo{ID: id})
		}
	}
}

// WithError makes completion calls always return this error.
func WithError(err error) Option {
	return func(p *Provider) { p.staticErr = err }
}

// WithLoadError makes LoadModel return this error.
func WithLoadError(err error) Option {
	return func(p *Provider) { p.loadErr = err }
}

// WithUsage sets the usage returned by the mock.
func WithUsage(u sidekick.Usage) Option {
	return func(p *Provider) { p.usage = u }
}

// WithResponseFunc sets a custom response function.
func WithResponseFunc(fn func(sidekick.CompletionRequest) (sidekick.CompletionResponse, error)) Option {
	return func(p *Provider) { p.responseFunc = fn }
}

func (p *Provider) Name() string { return "mock" }

func (p *Provider) ListModels(_ context.Context) ([]sidekick.ModelInfo, error) {
	if p.staticErr != nil {
		return nil, p.staticErr
	}
	out := make([]sidekick.ModelInfo, len(p.models))
	copy(out, p.models)
	return out, nil
}

func (p *Provider) ChatCompletion(_ context.Context, req sidekick.CompletionRequest) (sidekick.CompletionResponse, error) {
	p.callCount.Add(1)

	if p.staticErr != nil {
		return sidekick.CompletionResponse{}, p.staticErr
	}
	if p.responseFunc != nil {
		return p.responseFunc(req)
	}

	model := req.Model
	if model == "" && len(p.models) > 0 {
		model = p.models[0].ID
	}

	return sidekick.CompletionResponse{
		ID:           "mock-response-id",
		Content:      "Hello from mock provider",
		FinishReason: "stop",
		Usage:        p.usage,
		Model:        model,
	}, nil
}

func (p *Provider) LoadModel(_ context.Context, _ string) error {
	return p.loadErr
}

// CallCount returns the number of completion calls made to the provider.
func (p *Provider) CallCount() int64 { return p.callCount.Load() }
