package sidekick

import "time"

// Kind identifies an exposed gateway operation for usage accounting.
type Kind string

const (
	KindHealthCheck    Kind = "health_check"
	KindListModels     Kind = "list_models"
	KindCurrentModel   Kind = "get_current_model"
	KindChatCompletion Kind = "chat_completion"
	KindOffloadContext Kind = "offload_context"
	KindAutomateTask   Kind = "automate_menial_task"
	KindBatchProcess   Kind = "batch_process"
	KindLoadModel      Kind = "load_model"
	KindClearContexts  Kind = "clear_contexts"
)

// DefaultCaller is the caller identifier used when the transport does not
// distinguish callers.
const DefaultCaller = "default"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// ModelInfo describes a model reported by the completion service.
type ModelInfo struct {
	ID string `json:"id"`
}

// ModelType selects a task category for chat completions. When no explicit
// system prompt is given, the gateway derives one from the type.
type ModelType string

const (
	ModelGeneral  ModelType = "general"
	ModelCoding   ModelType = "coding"
	ModelDatabase ModelType = "database"
	ModelOS       ModelType = "os"
)

// ChatRequest is a chat completion request to the gateway.
type ChatRequest struct {
	Caller       string
	Prompt       string
	SystemPrompt string
	Temperature  *float64
	MaxTokens    *int
	ModelType    ModelType
}

// OffloadMode selects what an offload operation does with the context.
type OffloadMode string

const (
	OffloadStore     OffloadMode = "store"
	OffloadRetrieve  OffloadMode = "retrieve"
	OffloadSummarize OffloadMode = "summarize"
	OffloadAnalyze   OffloadMode = "analyze"
)

// Valid reports whether the mode is one of the defined offload modes.
func (m OffloadMode) Valid() bool {
	switch m {
	case OffloadStore, OffloadRetrieve, OffloadSummarize, OffloadAnalyze:
		return true
	}
	return false
}

// OffloadRequest offloads context data to the sidekick.
type OffloadRequest struct {
	Caller string
	ID     string
	Data   string
	Mode   OffloadMode
}

// OffloadResult is the outcome of an offload operation.
type OffloadResult struct {
	Mode     OffloadMode
	Tokens   int
	Content  string
	StoredAt time.Time
}

// TaskType selects a menial task template.
type TaskType string

const (
	TaskFormat    TaskType = "format"
	TaskExtract   TaskType = "extract"
	TaskTransform TaskType = "transform"
	TaskValidate  TaskType = "validate"
	TaskGenerate  TaskType = "generate"
)

// Valid reports whether the task type is one of the defined types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskFormat, TaskExtract, TaskTransform, TaskValidate, TaskGenerate:
		return true
	}
	return false
}

// OutputFormat selects the desired output shape for a menial task.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatCode     OutputFormat = "code"
)

// Valid reports whether the format is one of the defined output formats.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatText, FormatJSON, FormatMarkdown, FormatCode:
		return true
	}
	return false
}

// TaskRequest automates a menial task on the sidekick model.
type TaskRequest struct {
	Caller string
	Type   TaskType
	Data   string
	Format OutputFormat
}

// BatchRequest processes a list of items, one completion call per item.
// A nil Combine means true: results are combined unless explicitly
// requested separate.
type BatchRequest struct {
	Caller    string
	Items     []string
	Operation string
	ChunkSize int
	Combine   *bool
}

// BatchResult holds the outcome of a batch run. Results is always populated
// in input order; Combined is set unless the request asked for separate
// results.
type BatchResult struct {
	Results  []string
	Combined string
}

// HealthStatus reports connectivity to the completion service.
type HealthStatus struct {
	Addr                 string
	Reachable            bool
	ModelCount           int
	ModelLoaded          bool
	RecommendedAvailable bool
}

// ModelCatalog groups available models by category.
type ModelCatalog struct {
	Coding               []string
	General              []string
	Specialized          []string
	Recommended          string
	RecommendedAvailable bool
}

// LoadResult is the outcome of a model load attempt. When the completion
// service does not support remote loading, Loaded is false and Message
// carries manual instructions instead of an error.
type LoadResult struct {
	Loaded  bool
	Message string
}

// RateLimitState describes the limiter configuration and recent pressure.
type RateLimitState struct {
	Window time.Duration
	Max    int
	Recent int
}

// ContextInfo is a derived view over one stored context: metadata only,
// never the payload.
type ContextInfo struct {
	ID       string
	Tokens   int
	StoredAt time.Time
}

// StatsSnapshot is a point-in-time view of gateway usage.
type StatsSnapshot struct {
	Addr             string
	Uptime           time.Duration
	TotalRequests    int64
	RequestsByKind   map[Kind]int64
	RateLimit        RateLimitState
	Contexts         []ContextInfo
	ContextTokens    int
	MaxContextTokens int
}

// IntPtr returns a pointer to the given int.
func IntPtr(v int) *int { return &v }

// BoolPtr returns a pointer to the given bool.
func BoolPtr(v bool) *bool { return &v }

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(v float64) *float64 { return &v }
