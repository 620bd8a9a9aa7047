package filtering

import (
	"context"

	"github.com/irisvela/kindred/internal/profile"
)

type excludedUsersFilter struct {
	users []string
}

// NewExcludedUsers creates a filter that removes profiles by user ids configured in the config.
func NewExcludedUsers(users []string) Filter {
	return &excludedUsersFilter{
		users: users,
	}
}

func (f *excludedUsersFilter) Name() string { return "excluded_users" }

func (f *excludedUsersFilter) Disable(string) {}

func (f *excludedUsersFilter) IsEnabled() bool { return true }

func (f *excludedUsersFilter) Validate() error { return nil }

func (f *excludedUsersFilter) Apply(_ context.Context, pool *profile.Profiles) (*profile.Profiles, Step, error) {
	initial := pool.Len()
	if len(f.users) == 0 {
		return pool, Step{Initial: initial, Dropped: 0, Left: pool.Len()}, nil
	}

	excluded := pool.Exclude(profile.UserIDField, f.users)

	return pool, Step{Initial: initial, Dropped: len(excluded), Left: pool.Len()}, nil
}
