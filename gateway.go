package sidekick

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gateway sits between a calling agent and one completion service, adding
// admission control, context offloading, and batched dispatch. Every
// operation runs to completion before returning; the only blocking work is
// the network call to the service itself.
type Gateway struct {
	cfg      Config
	provider Provider
	limiter  *Limiter
	store    *Store
	usage    *Recorder
	meter    Meter
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMeter sets the meter.
func WithMeter(m Meter) Option {
	return func(g *Gateway) { g.meter = m }
}

// WithEstimator sets the token estimator used by the context store. The
// same estimator feeds every reported token count, so numbers stay
// comparable across operations.
func WithEstimator(e Estimator) Option {
	return func(g *Gateway) { g.store = NewStore(g.cfg.MaxContextTokens, e) }
}

// New creates a Gateway for the given provider. Default components
// (sliding-window limiter, in-memory store, noop meter) are built from the
// config unless overridden via options.
func New(cfg Config, provider Provider, opts ...Option) (*Gateway, error) {
	if provider == nil {
		return nil, fmt.Errorf("sidekick: a provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:      cfg,
		provider: provider,
		limiter:  NewLimiter(cfg.RateLimitWindow, cfg.RateLimitMax),
		store:    NewStore(cfg.MaxContextTokens, nil),
		usage:    NewRecorder(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.meter == nil {
		g.meter = &noopMeter{}
	}

	return g, nil
}

// admit runs the admission check for one request, records it, and notifies
// the meter. Returns the request ID for correlating upstream events.
func (g *Gateway) admit(kind Kind, caller string) (string, error) {
	if caller == "" {
		caller = DefaultCaller
	}

	reqID := uuid.New().String()
	d := g.limiter.Admit(caller)
	g.usage.Record(kind)
	g.meter.OnRequest(RequestEvent{
		ID:         reqID,
		Kind:       kind,
		Caller:     caller,
		Allowed:    d.Allowed,
		RetryAfter: d.RetryAfter,
	})

	if !d.Allowed {
		return reqID, &RateLimitError{Caller: caller, RetryAfter: d.RetryAfter}
	}
	return reqID, nil
}

// complete issues one completion call and reports it to the meter.
func (g *Gateway) complete(ctx context.Context, reqID string, kind Kind, req CompletionRequest) (CompletionResponse, error) {
	start := time.Now()
	resp, err := g.provider.ChatCompletion(ctx, req)
	duration := time.Since(start)

	ev := UpstreamEvent{
		ID:       reqID,
		Kind:     kind,
		Model:    resp.Model,
		Duration: duration,
	}
	if err != nil {
		ev.Error = err
	} else {
		ev.Success = true
		ev.Usage = resp.Usage
	}
	g.meter.OnUpstream(ev)

	return resp, err
}

// HealthCheck probes the completion service. An unreachable service is a
// reportable status, not an error.
func (g *Gateway) HealthCheck(ctx context.Context) (HealthStatus, error) {
	if _, err := g.admit(KindHealthCheck, DefaultCaller); err != nil {
		return HealthStatus{}, err
	}

	status := HealthStatus{Addr: g.cfg.Addr()}

	models, err := g.provider.ListModels(ctx)
	if err != nil {
		if errors.Is(err, ErrUpstreamUnavailable) {
			return status, nil
		}
		return HealthStatus{}, err
	}

	status.Reachable = true
	status.ModelCount = len(models)
	status.ModelLoaded = len(models) > 0
	for _, m := range models {
		if g.cfg.Recommended != "" && strings.Contains(m.ID, g.cfg.Recommended) {
			status.RecommendedAvailable = true
			break
		}
	}
	return status, nil
}

// ListModels returns the available models grouped by category.
func (g *Gateway) ListModels(ctx context.Context) (ModelCatalog, error) {
	if _, err := g.admit(KindListModels, DefaultCaller); err != nil {
		return ModelCatalog{}, err
	}

	models, err := g.provider.ListModels(ctx)
	if err != nil {
		return ModelCatalog{}, err
	}
	return Categorize(models, g.cfg.Recommended), nil
}

// CurrentModel returns the identifier of the loaded model, or "" when the
// service has none loaded. The service reports the loaded model only on a
// completion, so this issues a minimal probe request.
func (g *Gateway) CurrentModel(ctx context.Context) (string, error) {
	reqID, err := g.admit(KindCurrentModel, DefaultCaller)
	if err != nil {
		return "", err
	}

	resp, err := g.complete(ctx, reqID, KindCurrentModel, CompletionRequest{
		Messages:    []Message{{Role: "user", Content: "Hi"}},
		Temperature: Float64Ptr(0.1),
		MaxTokens:   IntPtr(5),
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return "", nil
		}
		return "", err
	}
	return resp.Model, nil
}

// ChatCompletion generates text from the loaded model. When no system
// prompt is given, one is derived from the request's model type.
func (g *Gateway) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	reqID, err := g.admit(KindChatCompletion, req.Caller)
	if err != nil {
		return "", err
	}

	system := req.SystemPrompt
	if system == "" {
		system = modelTypePrompt(req.ModelType)
	}

	var messages []Message
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: req.Prompt})

	temperature := req.Temperature
	if temperature == nil {
		temperature = Float64Ptr(0.7)
	}
	maxTokens := req.MaxTokens
	if maxTokens == nil {
		maxTokens = IntPtr(1024)
	}

	resp, err := g.complete(ctx, reqID, KindChatCompletion, CompletionRequest{
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// LoadModel asks the service to load a model. A service version without a
// load endpoint degrades to manual instructions instead of failing.
func (g *Gateway) LoadModel(ctx context.Context, model string) (LoadResult, error) {
	reqID, err := g.admit(KindLoadModel, DefaultCaller)
	if err != nil {
		return LoadResult{}, err
	}

	start := time.Now()
	loadErr := g.provider.LoadModel(ctx, model)
	g.meter.OnUpstream(UpstreamEvent{
		ID:       reqID,
		Kind:     KindLoadModel,
		Model:    model,
		Success:  loadErr == nil,
		Duration: time.Since(start),
		Error:    loadErr,
	})

	if loadErr != nil {
		if errors.Is(loadErr, ErrUnsupportedOperation) {
			return LoadResult{
				Message: fmt.Sprintf("model loading is not supported by this service version; load %q manually through the LM Studio UI", model),
			}, nil
		}
		return LoadResult{}, loadErr
	}

	return LoadResult{
		Loaded:  true,
		Message: fmt.Sprintf("model %q loaded at %s", model, g.cfg.Addr()),
	}, nil
}

// ClearContexts removes stored contexts matching pattern and returns the
// removed count. "*" clears everything.
func (g *Gateway) ClearContexts(pattern string) (int, error) {
	if _, err := g.admit(KindClearContexts, DefaultCaller); err != nil {
		return 0, err
	}
	return g.store.Clear(pattern), nil
}

// Stats returns a point-in-time usage snapshot. It is a diagnostics read:
// it is not admitted and does not count toward usage, so the snapshot
// reflects exactly the work done for callers up to this moment.
func (g *Gateway) Stats() StatsSnapshot {
	return StatsSnapshot{
		Addr:           g.cfg.Addr(),
		Uptime:         g.usage.Uptime(),
		TotalRequests:  g.usage.Total(),
		RequestsByKind: g.usage.ByKind(),
		RateLimit: RateLimitState{
			Window: g.limiter.Window(),
			Max:    g.limiter.Max(),
			Recent: g.limiter.Recent(),
		},
		Contexts:         g.store.Snapshot(),
		ContextTokens:    g.store.TotalTokens(),
		MaxContextTokens: g.cfg.MaxContextTokens,
	}
}

// noopMeter is a meter that does nothing.
type noopMeter struct{}

func (m *noopMeter) OnRequest(RequestEvent)   {}
func (m *noopMeter) OnUpstream(UpstreamEvent) {}
