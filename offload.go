package sidekick

import (
	"context"
	"fmt"
)

const (
	summarizeSystemPrompt = "You are a helpful assistant that creates concise summaries. Summarize the following context, preserving key information."
	analyzeSystemPrompt   = "You are an analytical assistant. Extract key points, entities, and actionable items from the context."
)

// OffloadContext stores, retrieves, or derives text from a cached context.
// Summarize and analyze store the supplied data first (with store
// semantics, including size rejection) and then delegate to the completion
// service; the stored payload itself is never overwritten with derived
// text, so repeated calls keep working from the original.
func (g *Gateway) OffloadContext(ctx context.Context, req OffloadRequest) (OffloadResult, error) {
	reqID, err := g.admit(KindOffloadContext, req.Caller)
	if err != nil {
		return OffloadResult{}, err
	}

	if !req.Mode.Valid() {
		return OffloadResult{}, fmt.Errorf("%w: unknown offload mode %q", ErrInvalidRequest, req.Mode)
	}

	switch req.Mode {
	case OffloadStore:
		tokens, err := g.store.Put(req.ID, req.Data)
		if err != nil {
			return OffloadResult{}, err
		}
		return OffloadResult{Mode: OffloadStore, Tokens: tokens}, nil

	case OffloadRetrieve:
		stored, err := g.store.Get(req.ID)
		if err != nil {
			return OffloadResult{}, err
		}
		return OffloadResult{
			Mode:     OffloadRetrieve,
			Tokens:   stored.Tokens,
			Content:  stored.Data,
			StoredAt: stored.StoredAt,
		}, nil

	case OffloadSummarize:
		return g.derive(ctx, reqID, req, summarizeSystemPrompt,
			"Please summarize this context:\n\n%s", 500)

	default: // OffloadAnalyze
		return g.derive(ctx, reqID, req, analyzeSystemPrompt,
			"Analyze this context and extract key information:\n\n%s", 800)
	}
}

// derive stores the request data when supplied, then sends the stored
// payload to the completion service with the given instruction.
func (g *Gateway) derive(ctx context.Context, reqID string, req OffloadRequest, system, promptFormat string, maxTokens int) (OffloadResult, error) {
	if req.Data != "" {
		if _, err := g.store.Put(req.ID, req.Data); err != nil {
			return OffloadResult{}, err
		}
	}

	stored, err := g.store.Get(req.ID)
	if err != nil {
		return OffloadResult{}, err
	}

	resp, err := g.complete(ctx, reqID, KindOffloadContext, CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: fmt.Sprintf(promptFormat, stored.Data)},
		},
		Temperature: Float64Ptr(0.3),
		MaxTokens:   IntPtr(maxTokens),
	})
	if err != nil {
		return OffloadResult{}, err
	}

	return OffloadResult{
		Mode:     req.Mode,
		Tokens:   stored.Tokens,
		Content:  resp.Content,
		StoredAt: stored.StoredAt,
	}, nil
}
