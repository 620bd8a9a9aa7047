package ai

import (
	"context"

	"github.com/irisvela/kindred/internal/profile"
)

type SynchronicityAssessment struct {
	Aligned bool
	Score   float64
	Reason  string
	Message string
	Raw     string
}

type Matcher interface {
	Evaluate(ctx context.Context, seeker, candidate *profile.Profile) (*SynchronicityAssessment, error)
}
