package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	UserIDField = "UserID"

	// DismissActorUser marks profiles dismissed by the user.
	DismissActorUser = "user"
	// DismissActorAI marks profiles dismissed by the synchronicity matcher.
	DismissActorAI = "ai"
)

type Profiles struct {
	Items []*Profile
}

// Profile is a community member record as returned by the community API.
// Every field except UserID and CreatedDate is optional; absent fields decode
// to zero values and are tolerated everywhere downstream.
type Profile struct {
	UserID        string             `json:"user_id,omitempty"`
	DisplayName   string             `json:"display_name,omitempty"`
	Bio           string             `json:"bio,omitempty"`
	Skills        []string           `json:"skills,omitempty"`
	ValuesTags    []string           `json:"values_tags,omitempty"`
	Intentions    []string           `json:"intentions,omitempty"`
	Collaboration *CollabPreferences `json:"collaboration_preferences,omitempty"`
	TrustScore    float64            `json:"trust_score,omitempty"`
	RankPoints    float64            `json:"rank_points,omitempty"`
	LastSeenAt    *time.Time         `json:"last_seen_at,omitempty"`
	CreatedDate   time.Time          `json:"created_date,omitempty"`

	// Synchronicity carries the AI assessment when the matcher has run.
	Synchronicity *SynchronicityResult `json:"synchronicity,omitempty"`
}

type CollabPreferences struct {
	// OpenToCollaborate is a tri-state: nil (unset) counts as open.
	OpenToCollaborate   *bool    `json:"open_to_collaborate,omitempty"`
	PreferredCommitment string   `json:"preferred_commitment,omitempty"`
	PreferredRoles      []string `json:"preferred_roles,omitempty"`
	ProjectStages       []string `json:"project_stages_interested,omitempty"`
}

type SynchronicityResult struct {
	Aligned bool    `json:"aligned,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     string  `json:"raw,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Seeker is the acting user's side of a ranking call.
type Seeker struct {
	UserID     string   `json:"user_id,omitempty"`
	ValuesTags []string `json:"values_tags,omitempty"`
	Intentions []string `json:"intentions,omitempty"`
}

// Skill is a single entry of the seeker's skill set.
type Skill struct {
	Name string `json:"skill_name,omitempty" mapstructure:"skill_name"`
}

type DismissedProfiles struct {
	Items []*DismissedProfile
}

type DismissedProfile struct {
	UserID      string
	DisplayName string
	Actor       string
	Reason      string
	DismissedAt time.Time
}

func (p *Profiles) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "profiles_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (p *Profiles) ToDismissed(actor, reason string) *DismissedProfiles {
	dismissed := &DismissedProfiles{}
	for _, pr := range p.Items {
		dismissed.Items = append(dismissed.Items, &DismissedProfile{
			UserID:      pr.UserID,
			DisplayName: pr.DisplayName,
			Actor:       actor,
			Reason:      reason,
			DismissedAt: time.Now().UTC(),
		})
	}
	return dismissed
}

// GetDismissedProfilesFromFile loads the dismissed-profiles file. A missing
// file yields an empty collection so the first run can append to it.
func GetDismissedProfilesFromFile(path string) (*DismissedProfiles, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return &DismissedProfiles{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &DismissedProfiles{}, nil
	}

	var dismissed DismissedProfiles
	if err := json.NewDecoder(file).Decode(&dismissed); err != nil {
		return nil, err
	}
	return &dismissed, nil
}

func (d *DismissedProfiles) Append(s *DismissedProfiles) {
	d.Items = append(d.Items, s.Items...)
}

func (d *DismissedProfiles) UserIDs() []string {
	ids := make([]string, 0)
	for _, pr := range d.Items {
		ids = append(ids, pr.UserID)
	}
	return ids
}

func (d *DismissedProfiles) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	return nil
}

func (p *Profile) GetStringField(name string) string {
	switch name {
	case UserIDField:
		return p.UserID

	default:
		return ""
	}
}

// ReportByIntention groups profiles by their declared intentions for pretty
// printing. Profiles without intentions land under "unspecified".
func (p *Profiles) ReportByIntention() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, pr := range p.Items {
		entry := map[string]string{
			"user_id":      pr.UserID,
			"display_name": pr.DisplayName,
			"trust_score":  fmt.Sprintf("%.1f", pr.TrustScore),
			"rank_points":  fmt.Sprintf("%.0f", pr.RankPoints),
		}
		if pr.Synchronicity != nil {
			if pr.Synchronicity.Error != "" {
				entry["ai_error"] = pr.Synchronicity.Error
			} else {
				entry["ai_aligned"] = fmt.Sprintf("%t", pr.Synchronicity.Aligned)
				entry["ai_score"] = fmt.Sprintf("%g", pr.Synchronicity.Score)
				entry["ai_reason"] = pr.Synchronicity.Reason
			}
		}

		intentions := pr.Intentions
		if len(intentions) == 0 {
			intentions = []string{"unspecified"}
		}
		for _, intention := range intentions {
			report[intention] = append(report[intention], entry)
		}
	}
	return report
}

func (p *Profiles) Len() int {
	return len(p.Items)
}

func (p *Profiles) FindByUserID(id string) *Profile {
	for _, pr := range p.Items {
		if pr.UserID == id {
			return pr
		}
	}
	return nil
}

// Exclude removes profiles from the pool by field value.
func (p *Profiles) Exclude(name string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, pr := range p.Items {
			if pr.GetStringField(name) == target {
				p.RemoveByIndex(idx)
				excluded = append(excluded, pr.UserID)
				break
			}
		}
	}
	return excluded
}

// RemoveByIndex removes a profile from the pool by index. Does not preserve order.
func (p *Profiles) RemoveByIndex(idx int) {
	p.Items[idx] = p.Items[len(p.Items)-1]
	p.Items = p.Items[:len(p.Items)-1]
}
