package sidekick

import (
	"context"
	"fmt"
	"strings"
)

// DefaultChunkSize is the chunk size used when a batch request leaves it unset.
const DefaultChunkSize = 5

const batchSystemPrompt = "You are a batch processing assistant. Process the item according to the specified operation. Be consistent across all items."

// BatchProcess partitions the request's items into contiguous chunks and
// drives one completion call per item, strictly in input order. Each item
// passes the admission check first; on rejection or upstream failure the
// run stops immediately and the returned *BatchError carries every result
// produced so far plus the index of the item that was not processed.
// Items are never processed concurrently.
func (g *Gateway) BatchProcess(ctx context.Context, req BatchRequest) (BatchResult, error) {
	if len(req.Items) == 0 {
		// Rejected before admission, but still a request made of the
		// gateway, so it counts.
		g.usage.Record(KindBatchProcess)
		return BatchResult{}, ErrNoItems
	}

	size := req.ChunkSize
	if size < 1 {
		size = DefaultChunkSize
	}

	results := make([]string, 0, len(req.Items))

	for start := 0; start < len(req.Items); start += size {
		end := start + size
		if end > len(req.Items) {
			end = len(req.Items)
		}

		for i := start; i < end; i++ {
			reqID, err := g.admit(KindBatchProcess, req.Caller)
			if err != nil {
				return BatchResult{}, &BatchError{Results: results, StopIndex: i, Err: err}
			}

			prompt := fmt.Sprintf("Operation: %s\n\nItem %d of %d:\n%s",
				req.Operation, i+1, len(req.Items), req.Items[i])

			resp, err := g.complete(ctx, reqID, KindBatchProcess, CompletionRequest{
				Messages: []Message{
					{Role: "system", Content: batchSystemPrompt},
					{Role: "user", Content: prompt},
				},
				Temperature: Float64Ptr(0.3),
				MaxTokens:   IntPtr(1024),
			})
			if err != nil {
				return BatchResult{}, &BatchError{Results: results, StopIndex: i, Err: err}
			}

			results = append(results, resp.Content)
		}
	}

	out := BatchResult{Results: results}
	if req.Combine == nil || *req.Combine {
		out.Combined = combineResults(results)
	}
	return out, nil
}

// combineResults concatenates per-item results into one ordered text block
// with numbered section boundaries.
func combineResults(results []string) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, r)
	}
	return b.String()
}
