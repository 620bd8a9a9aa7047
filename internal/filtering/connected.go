package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/irisvela/kindred/internal/community"
	"github.com/irisvela/kindred/internal/profile"
)

const forceFlagSetMsg = "force flag is set"

// ConnectionLister supplies the seeker's existing connections.
type ConnectionLister interface {
	GetConnections() (*community.Connections, error)
}

type connectedFilter struct {
	deps   *ConnectedDeps
	ignore bool
}

type ConnectedDeps struct {
	API    ConnectionLister
	Logger *zap.Logger
}

type ConnectedConfig struct {
	Ignore bool
}

// NewConnected creates a filter that removes profiles the seeker is already
// connected to.
func NewConnected(cfg *ConnectedConfig, deps *ConnectedDeps) Filter {
	ignore := false
	if cfg != nil {
		ignore = cfg.Ignore
	}

	return &connectedFilter{
		deps:   deps,
		ignore: ignore,
	}
}

func (f *connectedFilter) Name() string { return "connected" }

func (f *connectedFilter) Disable(string) {}

func (f *connectedFilter) IsEnabled() bool { return true }

func (f *connectedFilter) Validate() error {
	if f.deps == nil || f.deps.API == nil {
		return fmt.Errorf("community client is required")
	}

	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	return nil
}

func (f *connectedFilter) Apply(_ context.Context, pool *profile.Profiles) (*profile.Profiles, Step, error) {
	initial := pool.Len()
	if f.ignore {
		f.deps.Logger.Info("keeping already connected profiles", zap.String("reason", forceFlagSetMsg))
		return pool, Step{Initial: initial, Dropped: 0, Left: pool.Len()}, nil
	}

	connections, err := f.deps.API.GetConnections()
	if err != nil {
		return pool, Step{}, fmt.Errorf("get my connections: %w", err)
	}

	excluded := pool.Exclude(profile.UserIDField, connections.UserIDs())
	if len(excluded) > 0 {
		f.deps.Logger.Info("excluding profiles based on my connections",
			zap.Strings("excluded_profiles", excluded),
			zap.Int("profiles_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(excluded), Left: pool.Len()}, nil
}
