package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/irisvela/kindred/internal/ai"
	"github.com/irisvela/kindred/internal/profile"
)

type aiSynchronicityFilter struct {
	enabled bool
	reason  string
	config  *AISynchronicityConfig
	deps    *AISynchronicityDeps
}

type AISynchronicityDeps struct {
	Logger      *zap.Logger
	Matcher     ai.Matcher
	Seeker      *profile.Profile
	ExcludeFile string
}

type AISynchronicityConfig struct {
	Enabled         bool
	Provider        string
	MinimumFitScore float64
	Model           string
}

// NewAISynchronicity creates the AI-based screening step.
func NewAISynchronicity(cfg *AISynchronicityConfig, deps *AISynchronicityDeps) Filter {
	return &aiSynchronicityFilter{
		enabled: cfg.Enabled,
		deps:    deps,
		config:  cfg,
	}
}

func (f *aiSynchronicityFilter) Name() string { return "ai_synchronicity" }

func (f *aiSynchronicityFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiSynchronicityFilter) IsEnabled() bool { return f.enabled }

func (f *aiSynchronicityFilter) Validate() error {
	if f.deps == nil || f.deps.Matcher == nil {
		return fmt.Errorf("ai matcher is required when ai filter is enabled")
	}
	if f.deps.Seeker == nil {
		return fmt.Errorf("seeker profile is required for AI evaluation")
	}
	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

func (f *aiSynchronicityFilter) Apply(ctx context.Context, pool *profile.Profiles) (*profile.Profiles, Step, error) {
	initial := pool.Len()

	f.applyMatcher(ctx, pool)

	left := pool.Len()
	return pool, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiSynchronicityFilter) applyMatcher(ctx context.Context, pool *profile.Profiles) {
	initial := pool.Len()
	approved := make([]*profile.Profile, 0, initial)

	for _, candidate := range pool.Items {
		assessment, err := f.deps.Matcher.Evaluate(ctx, f.deps.Seeker, candidate)
		if err != nil {
			f.deps.Logger.Warn("AI evaluation failed",
				zap.String("candidate_id", candidate.UserID),
				zap.Error(err),
			)
			candidate.Synchronicity = &profile.SynchronicityResult{Error: err.Error()}
			approved = append(approved, candidate)
			continue
		}

		candidate.Synchronicity = &profile.SynchronicityResult{
			Aligned: assessment.Aligned,
			Score:   assessment.Score,
			Reason:  assessment.Reason,
			Message: assessment.Message,
			Raw:     assessment.Raw,
		}

		if !assessment.Aligned {
			f.deps.Logger.Info("candidate rejected by AI provider",
				zap.String("candidate_id", candidate.UserID),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)

			if err := f.appendToExcludeFile(candidate, assessment.Reason); err != nil {
				f.deps.Logger.Warn("failed to append candidate to exclude file",
					zap.String("candidate_id", candidate.UserID),
					zap.Error(err),
				)
			}
			continue
		}

		f.deps.Logger.Info("candidate approved by AI",
			zap.String("candidate_id", candidate.UserID),
			zap.Float64("ai_score", assessment.Score),
		)

		approved = append(approved, candidate)
	}

	pool.Items = approved

	f.deps.Logger.Info("AI screening completed",
		zap.Int("initial_profiles", initial),
		zap.Int("approved_profiles", len(approved)),
	)
}

func (f *aiSynchronicityFilter) appendToExcludeFile(candidate *profile.Profile, reason string) error {
	path := strings.TrimSpace(f.deps.ExcludeFile)
	if path == "" {
		return nil
	}

	dismissed, err := profile.GetDismissedProfilesFromFile(path)
	if err != nil {
		return fmt.Errorf("load dismissed profiles: %w", err)
	}

	toAppend := (&profile.Profiles{Items: []*profile.Profile{candidate}}).ToDismissed(profile.DismissActorAI, reason)
	dismissed.Append(toAppend)

	if err := dismissed.ToFile(path); err != nil {
		return fmt.Errorf("write dismissed profiles: %w", err)
	}

	f.deps.Logger.Info("candidate appended to exclude file",
		zap.String("candidate_id", candidate.UserID),
		zap.String("exclude_file", path),
	)

	return nil
}
