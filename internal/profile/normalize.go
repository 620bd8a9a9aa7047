package profile

import "strings"

// Normalized holds the lowercase, trimmed view of a profile that the scoring
// code operates on. Slices are freshly allocated; the source profile is never
// aliased or mutated.
type Normalized struct {
	Skills     []string
	ValuesTags []string
	Intentions []string
}

// Normalize builds the canonical lowercase view of a candidate profile.
// A nil profile normalizes to empty collections.
func Normalize(p *Profile) Normalized {
	if p == nil {
		return Normalized{
			Skills:     []string{},
			ValuesTags: []string{},
			Intentions: []string{},
		}
	}

	return Normalized{
		Skills:     LowercaseList(p.Skills),
		ValuesTags: LowercaseList(p.ValuesTags),
		Intentions: LowercaseList(p.Intentions),
	}
}

// NormalizeSeeker builds the canonical lowercase view of the seeker side.
// The seeker's skills come from a separate skill-set collection, not from the
// profile record itself.
func NormalizeSeeker(s *Seeker, skills []Skill) Normalized {
	n := Normalized{
		Skills:     []string{},
		ValuesTags: []string{},
		Intentions: []string{},
	}
	if s != nil {
		n.ValuesTags = LowercaseList(s.ValuesTags)
		n.Intentions = LowercaseList(s.Intentions)
	}

	for _, skill := range skills {
		name := strings.ToLower(strings.TrimSpace(skill.Name))
		if name == "" {
			continue
		}
		n.Skills = append(n.Skills, name)
	}

	return n
}

// LowercaseList returns a fresh slice with every entry lowercased and
// trimmed. Empty entries are dropped, absent input yields an empty slice.
func LowercaseList(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		result = append(result, item)
	}
	return result
}
