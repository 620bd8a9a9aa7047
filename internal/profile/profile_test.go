package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExcludeByUserID(t *testing.T) {
	pool := &Profiles{Items: []*Profile{
		{UserID: "u1"},
		{UserID: "u2"},
		{UserID: "u3"},
	}}

	excluded := pool.Exclude(UserIDField, []string{"u2", "missing"})

	if len(excluded) != 1 || excluded[0] != "u2" {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if pool.Len() != 2 {
		t.Fatalf("expected 2 profiles left, got %d", pool.Len())
	}
	if pool.FindByUserID("u2") != nil {
		t.Fatalf("u2 should have been removed")
	}
}

func TestDismissedProfilesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dismissed.json")

	pool := &Profiles{Items: []*Profile{
		{UserID: "u1", DisplayName: "Vera"},
	}}

	dismissed := pool.ToDismissed(DismissActorAI, "low synchronicity")
	if err := dismissed.ToFile(path); err != nil {
		t.Fatalf("writing dismissed file: %v", err)
	}

	loaded, err := GetDismissedProfilesFromFile(path)
	if err != nil {
		t.Fatalf("loading dismissed file: %v", err)
	}

	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(loaded.Items))
	}
	entry := loaded.Items[0]
	if entry.UserID != "u1" || entry.Actor != DismissActorAI || entry.Reason != "low synchronicity" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestDismissedProfilesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("creating empty file: %v", err)
	}

	loaded, err := GetDismissedProfilesFromFile(path)
	if err != nil {
		t.Fatalf("loading empty file: %v", err)
	}
	if len(loaded.Items) != 0 {
		t.Fatalf("expected no entries, got %d", len(loaded.Items))
	}
}

func TestReportByIntentionIncludesSynchronicity(t *testing.T) {
	pool := &Profiles{Items: []*Profile{
		{
			UserID:      "u1",
			DisplayName: "Vera",
			Intentions:  []string{"build"},
			Synchronicity: &SynchronicityResult{
				Aligned: true,
				Score:   0.87,
				Reason:  "Shared purpose",
			},
		},
		{
			UserID:        "u2",
			Synchronicity: &SynchronicityResult{Error: "quota exceeded"},
		},
	}}

	report := pool.ReportByIntention()

	entries, ok := report["build"]
	if !ok || len(entries) != 1 {
		t.Fatalf("expected one entry under build, got %v", report)
	}
	if entries[0]["ai_aligned"] != "true" {
		t.Fatalf("expected ai_aligned true, got %q", entries[0]["ai_aligned"])
	}
	if entries[0]["ai_score"] != "0.87" {
		t.Fatalf("expected ai_score 0.87, got %q", entries[0]["ai_score"])
	}

	unspecified := report["unspecified"]
	if len(unspecified) != 1 {
		t.Fatalf("expected one unspecified entry, got %d", len(unspecified))
	}
	if unspecified[0]["ai_error"] != "quota exceeded" {
		t.Fatalf("unexpected ai_error: %q", unspecified[0]["ai_error"])
	}
	if _, ok := unspecified[0]["ai_aligned"]; ok {
		t.Fatalf("did not expect ai_aligned for error case")
	}
}
