package scoring

import "sort"

// Level is the ordinal severity band a corrected score falls into.
type Level string

const (
	LevelLow      Level = "low"
	LevelNormal   Level = "normal"
	LevelElevated Level = "elevated"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
)

// LevelFor buckets a corrected score into the canonical band table:
// <45 low, 45-54 normal, 55-64 elevated, 65-74 high, >=75 very_high.
// Bands are contiguous and cover the whole line, so extreme corrected
// scores above 100 still level as very_high.
func LevelFor(score float64) Level {
	switch {
	case score < 45:
		return LevelLow
	case score < 55:
		return LevelNormal
	case score < 65:
		return LevelElevated
	case score < 75:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// ProfileType is the categorical summary of which scale groups dominate.
type ProfileType string

const (
	ProfileNormosthenic      ProfileType = "normosthenic"
	ProfileNeurotic          ProfileType = "neurotic"
	ProfilePsychotic         ProfileType = "psychotic"
	ProfilePersonalDeviation ProfileType = "personal_deviation"
	ProfileMixed             ProfileType = "mixed"
)

// elevatedT is the cut for the profile-type rule only. It deliberately
// differs from the band table: any scale at 60+ counts as elevated here.
const elevatedT = 60

// ProfileRules names the scale subsets the profile-type classifier checks.
// Injected per test so the classifier stays free of test-specific codes.
type ProfileRules struct {
	NeuroticTriad     []string
	PsychoticTetrad   []string
	PersonalDeviation []string
}

// ScaleEntry is one clinical scale's slot in the profile.
type ScaleEntry struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	Level          Level   `json:"level"`
	Interpretation string  `json:"interpretation"`
}

// Profile combines per-scale leveling with the ranked and categorical
// summaries derived from the corrected scores.
type Profile struct {
	Scales      map[string]ScaleEntry `json:"scales"`
	Dominant    []ScaleEntry          `json:"dominant"`
	ProfileType ProfileType           `json:"profile_type"`
	CodeType    string                `json:"code_type"`
}

// ScaleTexts maps scale code -> level -> interpretation text.
type ScaleTexts map[string]map[Level]string

// BuildProfile levels each clinical scale, ranks the top 3 dominant scales
// and derives the profile type and two-point code type. Ranking is a stable
// descending sort, so scales tied on score keep their declaration order in
// clinicalOrder. An empty clinicalOrder yields an empty profile typed
// normosthenic.
func BuildProfile(corrected ScaleScores, clinicalOrder []string, names map[string]string, texts ScaleTexts, rules ProfileRules) Profile {
	p := Profile{Scales: map[string]ScaleEntry{}}

	entries := make([]ScaleEntry, 0, len(clinicalOrder))
	for _, code := range clinicalOrder {
		score, ok := corrected[code]
		if !ok {
			continue
		}
		level := LevelFor(score)
		name := names[code]
		if name == "" {
			name = code
		}
		e := ScaleEntry{
			Code:           code,
			Name:           name,
			Score:          score,
			Level:          level,
			Interpretation: texts[code][level],
		}
		p.Scales[code] = e
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })

	top := 3
	if top > len(entries) {
		top = len(entries)
	}
	p.Dominant = append([]ScaleEntry(nil), entries[:top]...)

	p.ProfileType = classifyProfile(p.Scales, rules)

	if len(entries) >= 2 {
		p.CodeType = entries[0].Code + "-" + entries[1].Code
	} else if len(entries) == 1 {
		p.CodeType = entries[0].Code
	}

	return p
}

// classifyProfile evaluates the fixed rule chain over the set of scales at
// 60+ T. First matching rule wins.
func classifyProfile(scales map[string]ScaleEntry, rules ProfileRules) ProfileType {
	elevated := map[string]bool{}
	for code, e := range scales {
		if e.Score >= elevatedT {
			elevated[code] = true
		}
	}
	if len(elevated) == 0 {
		return ProfileNormosthenic
	}
	if countIn(elevated, rules.NeuroticTriad) >= 2 {
		return ProfileNeurotic
	}
	if countIn(elevated, rules.PsychoticTetrad) >= 2 {
		return ProfilePsychotic
	}
	if countIn(elevated, rules.PersonalDeviation) >= 1 {
		return ProfilePersonalDeviation
	}
	return ProfileMixed
}

func countIn(set map[string]bool, codes []string) int {
	n := 0
	for _, c := range codes {
		if set[c] {
			n++
		}
	}
	return n
}
