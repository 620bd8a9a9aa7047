package match

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/irisvela/kindred/internal/profile"
)

const (
	// MatchAll disables a categorical filter dimension.
	MatchAll = "all"

	// maxResults bounds the ranked output.
	maxResults = 30

	// maxScore is the hard ceiling for an aggregated score.
	maxScore = 100
)

// Filters is the caller-supplied scoring context. Construct a fresh value per
// Rank call; the engine never mutates it.
type Filters struct {
	// Skills is free text, comma-separated.
	Skills     string `mapstructure:"skills"`
	Stage      string `mapstructure:"stage"`
	Commitment string `mapstructure:"commitment"`
	Role       string `mapstructure:"role"`
	// MinScore is the inclusive lower bound for ranked results.
	MinScore int `mapstructure:"min-score"`
}

// Result pairs a candidate with its compatibility score and the evidence
// behind it. Evidence lists are derived on every call, never stored.
type Result struct {
	Profile             *profile.Profile
	Score               int
	Reasons             []string
	SharedValues        []string
	MatchedSkills       []string
	ComplementarySkills []string
	IsOnline            bool
	IsNew               bool
}

// Engine computes bounded compatibility scores over an in-memory candidate
// pool. It holds no state between calls and performs no I/O.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the time source used for the online/new computations.
// A nil clock restores time.Now.
func (e *Engine) SetClock(clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}
	e.now = clock
}

// Rank scores every candidate against the seeker, drops the seeker's own
// profile and anything below filters.MinScore, and returns at most 30 results
// ordered by score descending. Ties order by user id ascending so identical
// inputs always produce identical output. A nil seeker yields an empty list.
func (e *Engine) Rank(seeker *profile.Seeker, seekerSkills []profile.Skill, pool *profile.Profiles, filters Filters) []*Result {
	results := make([]*Result, 0)
	if seeker == nil {
		e.logger.Debug("no seeker profile, returning empty result set")
		return results
	}
	if pool == nil {
		return results
	}

	now := e.now()
	normSeeker := profile.NormalizeSeeker(seeker, seekerSkills)
	filterSkills := parseFilterSkills(filters.Skills)

	for _, candidate := range pool.Items {
		if candidate == nil || candidate.UserID == seeker.UserID {
			continue
		}

		result := e.score(normSeeker, candidate, filters, filterSkills, now)
		if result.Score < filters.MinScore {
			continue
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Profile.UserID < results[j].Profile.UserID
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	e.logger.Debug("ranking completed",
		zap.Int("pool", pool.Len()),
		zap.Int("ranked", len(results)),
		zap.Int("min_score", filters.MinScore),
	)

	return results
}

// score runs the six dimension scorers in their fixed order and aggregates
// their contributions into a single result.
func (e *Engine) score(seeker profile.Normalized, candidate *profile.Profile, filters Filters, filterSkills []string, now time.Time) *Result {
	norm := profile.Normalize(candidate)

	result := &Result{
		Profile:             candidate,
		Reasons:             []string{},
		SharedValues:        []string{},
		MatchedSkills:       []string{},
		ComplementarySkills: []string{},
	}

	var raw float64

	skills := scoreSkills(seeker, norm, filterSkills)
	raw += skills.points
	result.Reasons = append(result.Reasons, skills.reasons...)
	result.MatchedSkills = skills.matched
	result.ComplementarySkills = skills.complementary

	values := scoreValues(seeker, norm)
	raw += values.points
	result.Reasons = append(result.Reasons, values.reasons...)
	result.SharedValues = values.shared

	intentions := scoreIntentions(seeker, norm)
	raw += intentions.points
	result.Reasons = append(result.Reasons, intentions.reasons...)

	prefs := scorePreferences(candidate.Collaboration, filters)
	raw += prefs.points
	result.Reasons = append(result.Reasons, prefs.reasons...)

	activity := scoreActivity(candidate, now)
	raw += activity.points
	result.Reasons = append(result.Reasons, activity.reasons...)
	result.IsOnline = activity.online

	recency := scoreRecency(candidate, now)
	raw += recency.points
	result.Reasons = append(result.Reasons, recency.reasons...)
	result.IsNew = recency.isNew

	result.Score = int(math.Min(math.Round(raw), maxScore))

	return result
}
