package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/irisvela/kindred/internal/community"
	"github.com/irisvela/kindred/internal/profile"
)

func testPool(ids ...string) *profile.Profiles {
	pool := &profile.Profiles{}
	for _, id := range ids {
		pool.Items = append(pool.Items, &profile.Profile{UserID: id})
	}
	return pool
}

type stubConnectionLister struct {
	connections *community.Connections
	err         error
}

func (s *stubConnectionLister) GetConnections() (*community.Connections, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.connections, nil
}

func TestExcludedUsersFilter(t *testing.T) {
	pool := testPool("u1", "u2", "u3")

	f := NewExcludedUsers([]string{"u2"})
	next, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Initial != 3 || step.Dropped != 1 || step.Left != 2 {
		t.Fatalf("unexpected step info: %+v", step)
	}
	if next.FindByUserID("u2") != nil {
		t.Fatalf("u2 should have been dropped")
	}
}

func TestExcludedUsersFilterEmptyList(t *testing.T) {
	pool := testPool("u1")

	f := NewExcludedUsers(nil)
	_, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 0 || step.Left != 1 {
		t.Fatalf("unexpected step info: %+v", step)
	}
}

func TestConnectedFilter(t *testing.T) {
	pool := testPool("u1", "u2")

	lister := &stubConnectionLister{connections: &community.Connections{
		{ID: "c1", UserID: "u1", Status: "active"},
	}}

	f := NewConnected(nil, &ConnectedDeps{API: lister, Logger: zap.NewNop()})
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	next, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Dropped != 1 || next.FindByUserID("u1") != nil {
		t.Fatalf("connected profile u1 should have been dropped: %+v", step)
	}
}

func TestConnectedFilterIgnore(t *testing.T) {
	pool := testPool("u1")

	lister := &stubConnectionLister{err: errors.New("should not be called")}
	f := NewConnected(&ConnectedConfig{Ignore: true}, &ConnectedDeps{API: lister, Logger: zap.NewNop()})

	_, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 0 {
		t.Fatalf("ignore mode must not drop profiles: %+v", step)
	}
}

func TestConnectedFilterValidate(t *testing.T) {
	f := NewConnected(nil, nil)
	if err := f.Validate(); err == nil {
		t.Fatalf("expected validation error without deps")
	}
}

func TestExcludeFileFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dismissed.json")

	dismissed := testPool("u2").ToDismissed(profile.DismissActorUser, "not a fit")
	if err := dismissed.ToFile(path); err != nil {
		t.Fatalf("writing dismissed file: %v", err)
	}

	pool := testPool("u1", "u2")
	f := NewExcludeFile(path, zap.NewNop())

	next, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 1 || next.FindByUserID("u2") != nil {
		t.Fatalf("dismissed profile u2 should have been dropped: %+v", step)
	}
}

func TestExcludeFileFilterMissingFileIsNoop(t *testing.T) {
	pool := testPool("u1")
	f := NewExcludeFile(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())

	_, step, err := f.Apply(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 0 {
		t.Fatalf("missing file must drop nothing: %+v", step)
	}
}

func TestRunFiltersSkipsDisabled(t *testing.T) {
	pool := testPool("u1", "u2")

	aiFilter := NewAISynchronicity(&AISynchronicityConfig{Enabled: false}, nil)
	pipeline := New([]Filter{NewExcludedUsers([]string{"u1"}), aiFilter}, zap.NewNop())

	result, err := pipeline.RunFilters(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 1 || result.FindByUserID("u2") == nil {
		t.Fatalf("expected only u2 left, got %d", result.Len())
	}
}

func TestRunFiltersWrapsStepError(t *testing.T) {
	pool := testPool("u1")

	lister := &stubConnectionLister{err: errors.New("api down")}
	pipeline := New([]Filter{
		NewConnected(nil, &ConnectedDeps{API: lister, Logger: zap.NewNop()}),
	}, zap.NewNop())

	_, err := pipeline.RunFilters(context.Background(), pool)
	if err == nil {
		t.Fatalf("expected error from failing step")
	}
	if !strings.Contains(err.Error(), "connected:") {
		t.Fatalf("error must name the step: %v", err)
	}
}

func TestDisableByName(t *testing.T) {
	aiFilter := NewAISynchronicity(&AISynchronicityConfig{Enabled: true}, nil)
	pipeline := New([]Filter{aiFilter}, zap.NewNop())

	pipeline.DisableByName("ai_synchronicity", "unconfigured")

	if aiFilter.IsEnabled() {
		t.Fatalf("expected filter to be disabled")
	}
}
