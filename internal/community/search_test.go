package community

import (
	"testing"
)

func TestBuildParams(t *testing.T) {
	params := &SearchParams{
		Text:    "sound healing",
		Skills:  []string{"design", "go"},
		PerPage: "100",
		Period:  30,
	}

	q := buildParams(params)

	if got := q.Get("text"); got != "sound healing" {
		t.Fatalf("unexpected text param: %q", got)
	}
	if got := q["skill"]; len(got) != 2 || got[0] != "design" || got[1] != "go" {
		t.Fatalf("unexpected skill params: %v", got)
	}
	if got := q.Get("period"); got != "30" {
		t.Fatalf("unexpected period param: %q", got)
	}
	if q.Has("value") {
		t.Fatalf("empty slice must not produce params")
	}
}

func TestDecodeProfiles(t *testing.T) {
	items := []Item{
		map[string]any{
			"user_id":      "u1",
			"display_name": "Vera",
			"skills":       []any{"Product Design", "SQL"},
			"trust_score":  42.5,
			"last_seen_at": "2025-06-15T11:59:00Z",
			"created_date": "2025-06-10T00:00:00Z",
			"collaboration_preferences": map[string]any{
				"open_to_collaborate":  false,
				"preferred_commitment": "flexible",
			},
		},
	}

	profiles, err := decodeProfiles(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}

	p := profiles[0]
	if p.UserID != "u1" || p.DisplayName != "Vera" {
		t.Fatalf("unexpected identity fields: %+v", p)
	}
	if len(p.Skills) != 2 || p.Skills[0] != "Product Design" {
		t.Fatalf("unexpected skills: %v", p.Skills)
	}
	if p.TrustScore != 42.5 {
		t.Fatalf("unexpected trust score: %v", p.TrustScore)
	}
	if p.LastSeenAt == nil || p.LastSeenAt.UTC().Hour() != 11 {
		t.Fatalf("last_seen_at not decoded: %v", p.LastSeenAt)
	}
	if p.CreatedDate.IsZero() {
		t.Fatalf("created_date not decoded")
	}
	if p.Collaboration == nil || p.Collaboration.OpenToCollaborate == nil || *p.Collaboration.OpenToCollaborate {
		t.Fatalf("collaboration preferences not decoded: %+v", p.Collaboration)
	}
	if p.Collaboration.PreferredCommitment != "flexible" {
		t.Fatalf("unexpected commitment: %q", p.Collaboration.PreferredCommitment)
	}
}
