package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/irisvela/kindred/internal/ai"
	"github.com/irisvela/kindred/internal/profile"
)

type stubMatcher struct {
	assessments map[string]*ai.SynchronicityAssessment
	err         error
}

func (s *stubMatcher) Evaluate(_ context.Context, _, candidate *profile.Profile) (*ai.SynchronicityAssessment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if a, ok := s.assessments[candidate.UserID]; ok {
		return a, nil
	}
	return &ai.SynchronicityAssessment{Aligned: true, Score: 0.9}, nil
}

func newAIFilter(matcher ai.Matcher, excludeFile string) Filter {
	return NewAISynchronicity(
		&AISynchronicityConfig{Enabled: true, Provider: "gemini", MinimumFitScore: 0.5},
		&AISynchronicityDeps{
			Logger:      zap.NewNop(),
			Matcher:     matcher,
			Seeker:      &profile.Profile{UserID: "me"},
			ExcludeFile: excludeFile,
		},
	)
}

func TestAISynchronicityDropsRejected(t *testing.T) {
	matcher := &stubMatcher{assessments: map[string]*ai.SynchronicityAssessment{
		"u2": {Aligned: false, Score: 0.1, Reason: "different direction"},
	}}

	f := newAIFilter(matcher, "")
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	pool := testPool("u1", "u2")
	next, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Dropped != 1 || next.FindByUserID("u2") != nil {
		t.Fatalf("rejected candidate should have been dropped: %+v", step)
	}

	kept := next.FindByUserID("u1")
	if kept == nil || kept.Synchronicity == nil || !kept.Synchronicity.Aligned {
		t.Fatalf("approved candidate must carry its assessment: %+v", kept)
	}
}

func TestAISynchronicityKeepsCandidateOnEvaluationError(t *testing.T) {
	f := newAIFilter(&stubMatcher{err: errors.New("quota exceeded")}, "")

	pool := testPool("u1")
	next, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Dropped != 0 {
		t.Fatalf("evaluation errors must not drop candidates: %+v", step)
	}
	kept := next.FindByUserID("u1")
	if kept.Synchronicity == nil || kept.Synchronicity.Error == "" {
		t.Fatalf("expected the error to be recorded on the profile")
	}
}

func TestAISynchronicityAppendsRejectedToExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dismissed.json")

	matcher := &stubMatcher{assessments: map[string]*ai.SynchronicityAssessment{
		"u1": {Aligned: false, Score: 0.2, Reason: "misaligned values"},
	}}

	f := newAIFilter(matcher, path)
	if _, _, err := f.Apply(context.Background(), testPool("u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dismissed, err := profile.GetDismissedProfilesFromFile(path)
	if err != nil {
		t.Fatalf("loading dismissed file: %v", err)
	}
	if len(dismissed.Items) != 1 {
		t.Fatalf("expected 1 dismissed entry, got %d", len(dismissed.Items))
	}
	entry := dismissed.Items[0]
	if entry.UserID != "u1" || entry.Actor != profile.DismissActorAI || entry.Reason != "misaligned values" {
		t.Fatalf("unexpected dismissed entry: %+v", entry)
	}
}

func TestAISynchronicityValidate(t *testing.T) {
	f := NewAISynchronicity(&AISynchronicityConfig{Enabled: true}, &AISynchronicityDeps{})
	if err := f.Validate(); err == nil {
		t.Fatalf("expected validation error without matcher")
	}
}
