package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
)

// AIFields returns the standard zap fields describing the AI provider and
// model. Empty values are omitted to keep log entries compact.
func AIFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}

	return fields
}

// WithAI attaches the common AI fields to the provided logger. A nil logger
// defaults to a no-op logger to avoid panics.
func WithAI(logger *zap.Logger, provider, model string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := AIFields(provider, model)
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
