package meter

import (
	"log/slog"

	"github.com/ineyio/sidekick"
)

// LogMeter logs gateway events using slog.
type LogMeter struct {
	Logger *slog.Logger
}

var _ sidekick.Meter = (*LogMeter)(nil)

// NewLogMeter creates a LogMeter with the given logger.
// If logger is nil, slog.Default() is used.
func NewLogMeter(logger *slog.Logger) *LogMeter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMeter{Logger: logger}
}

func (m *LogMeter) OnRequest(e sidekick.RequestEvent) {
	if e.Allowed {
		m.Logger.Info("request",
			"id", e.ID,
			"kind", e.Kind,
			"caller", e.Caller,
		)
	} else {
		m.Logger.Warn("request_rejected",
			"id", e.ID,
			"kind", e.Kind,
			"caller", e.Caller,
			"retry_after_ms", e.RetryAfter.Milliseconds(),
		)
	}
}

func (m *LogMeter) OnUpstream(e sidekick.UpstreamEvent) {
	if e.Success {
		m.Logger.Info("upstream",
			"id", e.ID,
			"kind", e.Kind,
			"model", e.Model,
			"duration_ms", e.Duration.Milliseconds(),
			"prompt_tokens", e.Usage.PromptTokens,
			"completion_tokens", e.Usage.CompletionTokens,
		)
	} else {
		m.Logger.Warn("upstream_error",
			"id", e.ID,
			"kind", e.Kind,
			"model", e.Model,
			"duration_ms", e.Duration.Milliseconds(),
			"error", e.Error,
		)
	}
}
