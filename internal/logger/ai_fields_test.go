package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestAIFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		model    string
		expect   int
	}{
		{
			name:     "both present",
			provider: "gemini",
			model:    "gemini-2.5-pro",
			expect:   2,
		},
		{
			name:   "both empty",
			expect: 0,
		},
		{
			name:     "whitespace is omitted",
			provider: "   ",
			model:    "gemini-2.5-pro",
			expect:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fields := AIFields(tt.provider, tt.model)
			if len(fields) != tt.expect {
				t.Fatalf("expected %d fields, got %d", tt.expect, len(fields))
			}
		})
	}
}

func TestWithAINilLogger(t *testing.T) {
	t.Parallel()

	logger := WithAI(nil, "gemini", "gemini-2.5-pro")
	if logger == nil {
		t.Fatalf("expected non-nil logger")
	}
}

func TestWithAIReturnsSameLoggerWithoutFields(t *testing.T) {
	t.Parallel()

	base := zap.NewNop()
	if got := WithAI(base, "", ""); got != base {
		t.Fatalf("expected the same logger when no fields are produced")
	}
}
