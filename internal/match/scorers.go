package match

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/irisvela/kindred/internal/profile"
)

const (
	pointsPerMatchedSkill  = 10
	pointsPerComplementary = 2
	complementaryCap       = 10
	maxComplementarySkills = 5

	pointsPerSharedValue     = 5
	pointsPerSharedIntention = 5

	pointsOpenToCollaborate = 5
	pointsCommitmentMatch   = 5
	pointsRoleMatch         = 5
	pointsStageMatch        = 5

	pointsOnline   = 5
	trustScoreCap  = 5
	rankPointsCap  = 5
	pointsNew      = 3
	onlineWindow   = 5 * time.Minute
	newMemberSince = 7 * 24 * time.Hour

	flexibleCommitment = "flexible"
)

// parseFilterSkills splits the free-text skills filter into a lowercase,
// trimmed list, dropping empty entries.
func parseFilterSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		skills = append(skills, part)
	}
	return skills
}

// skillsOverlap reports whether two normalized skill strings match under the
// symmetric substring rule: "react" matches "react native" and vice versa.
func skillsOverlap(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

type skillContribution struct {
	points        float64
	reasons       []string
	matched       []string
	complementary []string
}

// scoreSkills awards 10 points per filter skill that overlaps a candidate
// skill, plus up to 10 points for skills the candidate brings that the seeker
// lacks. Complementary skills must overlap neither the filter skills nor the
// seeker's own skill set.
func scoreSkills(seeker, candidate profile.Normalized, filterSkills []string) skillContribution {
	c := skillContribution{
		matched:       []string{},
		complementary: []string{},
	}

	for _, fs := range filterSkills {
		for _, cs := range candidate.Skills {
			if skillsOverlap(fs, cs) {
				c.matched = append(c.matched, fs)
				break
			}
		}
	}
	c.points += float64(len(c.matched) * pointsPerMatchedSkill)

	if len(c.matched) > 0 {
		listed := c.matched
		if len(listed) > 3 {
			listed = listed[:3]
		}
		c.reasons = append(c.reasons, "Skills: "+strings.Join(listed, ", "))
	}

	complementaryCount := 0
	for _, cs := range candidate.Skills {
		overlaps := false
		for _, fs := range filterSkills {
			if skillsOverlap(fs, cs) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			for _, ss := range seeker.Skills {
				if skillsOverlap(ss, cs) {
					overlaps = true
					break
				}
			}
		}
		if overlaps {
			continue
		}

		complementaryCount++
		if len(c.complementary) < maxComplementarySkills {
			c.complementary = append(c.complementary, cs)
		}
	}
	c.points += math.Min(float64(complementaryCount*pointsPerComplementary), complementaryCap)

	return c
}

type valuesContribution struct {
	points  float64
	reasons []string
	shared  []string
}

// scoreValues awards 5 points per candidate value that exactly equals a
// seeker value (case-insensitive, not substring).
func scoreValues(seeker, candidate profile.Normalized) valuesContribution {
	c := valuesContribution{shared: []string{}}

	seekerValues := make(map[string]bool, len(seeker.ValuesTags))
	for _, v := range seeker.ValuesTags {
		seekerValues[v] = true
	}

	for _, v := range candidate.ValuesTags {
		if seekerValues[v] {
			c.shared = append(c.shared, v)
		}
	}

	c.points = float64(len(c.shared) * pointsPerSharedValue)
	if len(c.shared) >= 2 {
		c.reasons = append(c.reasons, "Shared values: "+strings.Join(c.shared[:2], ", "))
	}

	return c
}

type intentionsContribution struct {
	points  float64
	reasons []string
}

// scoreIntentions awards 5 points per exactly shared intention and names the
// first one in the reasons.
func scoreIntentions(seeker, candidate profile.Normalized) intentionsContribution {
	var c intentionsContribution

	seekerIntentions := make(map[string]bool, len(seeker.Intentions))
	for _, i := range seeker.Intentions {
		seekerIntentions[i] = true
	}

	shared := make([]string, 0)
	for _, i := range candidate.Intentions {
		if seekerIntentions[i] {
			shared = append(shared, i)
		}
	}

	c.points = float64(len(shared) * pointsPerSharedIntention)
	if len(shared) > 0 {
		c.reasons = append(c.reasons, "Shared intention: "+shared[0])
	}

	return c
}

type prefsContribution struct {
	points  float64
	reasons []string
}

// scorePreferences scores collaboration preferences against the categorical
// filters. Unset open_to_collaborate counts as open. An unrecognized filter
// value simply never matches; it is not an error.
func scorePreferences(prefs *profile.CollabPreferences, filters Filters) prefsContribution {
	var c prefsContribution

	open := true
	commitment := ""
	roles := []string{}
	stages := []string{}
	if prefs != nil {
		if prefs.OpenToCollaborate != nil {
			open = *prefs.OpenToCollaborate
		}
		commitment = strings.ToLower(strings.TrimSpace(prefs.PreferredCommitment))
		roles = profile.LowercaseList(prefs.PreferredRoles)
		stages = profile.LowercaseList(prefs.ProjectStages)
	}

	if open {
		c.points += pointsOpenToCollaborate
	}

	filterCommitment := strings.ToLower(strings.TrimSpace(filters.Commitment))
	if filterCommitment != MatchAll && filterCommitment != "" {
		if commitment == filterCommitment || commitment == flexibleCommitment || filterCommitment == flexibleCommitment {
			c.points += pointsCommitmentMatch
			named := commitment
			if named == "" {
				named = filterCommitment
			}
			c.reasons = append(c.reasons, fmt.Sprintf("Commitment: %s", named))
		}
	}

	filterRole := strings.ToLower(strings.TrimSpace(filters.Role))
	if filterRole != MatchAll && filterRole != "" && containsString(roles, filterRole) {
		c.points += pointsRoleMatch
	}

	filterStage := strings.ToLower(strings.TrimSpace(filters.Stage))
	if filterStage != MatchAll && filterStage != "" && containsString(stages, filterStage) {
		c.points += pointsStageMatch
	}

	return c
}

type activityContribution struct {
	points  float64
	reasons []string
	online  bool
}

// scoreActivity awards presence and reputation points: 5 for being online
// within the last five minutes, up to 5 from trust score and up to 5 from
// rank points. Missing values contribute nothing.
func scoreActivity(candidate *profile.Profile, now time.Time) activityContribution {
	var c activityContribution

	if candidate.LastSeenAt != nil && now.Sub(*candidate.LastSeenAt) <= onlineWindow {
		c.online = true
		c.points += pointsOnline
		c.reasons = append(c.reasons, "Online now")
	}

	c.points += math.Min(math.Max(candidate.TrustScore/10, 0), trustScoreCap)
	c.points += math.Min(math.Max(candidate.RankPoints/100, 0), rankPointsCap)

	return c
}

type recencyContribution struct {
	points  float64
	reasons []string
	isNew   bool
}

// scoreRecency awards 3 points to members created within the last week.
func scoreRecency(candidate *profile.Profile, now time.Time) recencyContribution {
	var c recencyContribution

	if !candidate.CreatedDate.IsZero() && now.Sub(candidate.CreatedDate) <= newMemberSince {
		c.isNew = true
		c.points += pointsNew
		c.reasons = append(c.reasons, "New member")
	}

	return c
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
