package sidekick

import "context"

// Provider is the interface the completion service adapter must implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "lmstudio").
	Name() string

	// ListModels returns the models the service currently offers.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// ChatCompletion performs a synchronous chat completion.
	ChatCompletion(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// LoadModel asks the service to load a model. Returns
	// ErrUnsupportedOperation when the service version has no load endpoint.
	LoadModel(ctx context.Context, model string) error
}

// CompletionRequest is the request sent to the provider adapter. An empty
// Model means whatever model the service has loaded.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

// CompletionResponse is the response from the provider adapter.
type CompletionResponse struct {
	ID           string
	Content      string
	FinishReason string
	Model        string
	Usage        Usage
}
