package sidekick

import (
	"context"
	"fmt"
)

// taskPrompts maps each task type to its system instruction. The %s slot
// takes the output format; validate does not reference it.
var taskPrompts = map[TaskType]string{
	TaskFormat:    "You are a formatting assistant. Format the following data as clean %s. Be precise and consistent.",
	TaskExtract:   "You are a data extraction assistant. Extract relevant information and present it as %s.",
	TaskTransform: "You are a data transformation assistant. Transform the input according to common patterns and output as %s.",
	TaskValidate:  "You are a validation assistant. Check the data for errors, inconsistencies, or issues. Report findings clearly.",
	TaskGenerate:  "You are a content generation assistant. Generate appropriate content based on the input, formatted as %s.",
}

var formatHints = map[OutputFormat]string{
	FormatJSON:     "\n\nOutput valid JSON only.",
	FormatMarkdown: "\n\nUse proper Markdown formatting.",
	FormatCode:     "\n\nOutput clean, properly formatted code.",
	FormatText:     "\n\nOutput plain text.",
}

// modelTypePrompt returns a steering system prompt for a chat request's
// task category. General requests get no steering.
func modelTypePrompt(t ModelType) string {
	switch t {
	case ModelCoding:
		return "You are an expert coding assistant. Write clean, correct, well-structured code."
	case ModelDatabase:
		return "You are a database assistant. Reason carefully about schemas, queries, and data integrity."
	case ModelOS:
		return "You are a systems administration assistant. Be precise about commands, paths, and permissions."
	default:
		return ""
	}
}

// AutomateTask delegates a repetitive task to the sidekick model using a
// task-specific instruction template. The output is returned as-is; no
// local validation of its conformance to the requested format is done.
func (g *Gateway) AutomateTask(ctx context.Context, req TaskRequest) (string, error) {
	reqID, err := g.admit(KindAutomateTask, req.Caller)
	if err != nil {
		return "", err
	}

	if !req.Type.Valid() {
		return "", fmt.Errorf("%w: unknown task type %q", ErrInvalidRequest, req.Type)
	}
	format := req.Format
	if format == "" {
		format = FormatText
	}
	if !format.Valid() {
		return "", fmt.Errorf("%w: unknown output format %q", ErrInvalidRequest, req.Format)
	}

	system := taskPrompts[req.Type]
	if req.Type != TaskValidate {
		system = fmt.Sprintf(system, format)
	}
	system += formatHints[format]

	resp, err := g.complete(ctx, reqID, KindAutomateTask, CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: fmt.Sprintf("Task: %s\n\nData:\n%s", req.Type, req.Data)},
		},
		Temperature: Float64Ptr(0.3),
		MaxTokens:   IntPtr(2048),
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
