package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/irisvela/kindred/internal/profile"
)

type excludeFileFilter struct {
	path   string
	logger *zap.Logger
}

// NewExcludeFile creates a filter that removes profiles recorded in the
// dismissed-profiles file. An empty path makes the filter a no-op.
func NewExcludeFile(path string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excludeFileFilter{
		path:   strings.TrimSpace(path),
		logger: logger,
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, pool *profile.Profiles) (*profile.Profiles, Step, error) {
	initial := pool.Len()
	if f.path == "" {
		return pool, Step{Initial: initial, Dropped: 0, Left: pool.Len()}, nil
	}

	dismissed, err := profile.GetDismissedProfilesFromFile(f.path)
	if err != nil {
		return pool, Step{}, fmt.Errorf("getting dismissed profiles from file: %w", err)
	}

	removed := pool.Exclude(profile.UserIDField, dismissed.UserIDs())
	if len(removed) > 0 {
		f.logger.Info("excluding profiles based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_profiles", removed),
			zap.Int("profiles_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(removed), Left: pool.Len()}, nil
}
