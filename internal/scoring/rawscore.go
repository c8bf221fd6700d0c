package scoring

// RawScores maps scale code -> unweighted item sum.
type RawScores map[string]int

// ScaleScores maps scale code -> a derived numeric score (T, corrected).
type ScaleScores map[string]float64

// ScoreRaw sums item contributions per scale. Every scale that appears in
// questions is present in the output, defaulting to 0 when none of its items
// were answered. Answers for ids not in questions are ignored, which keeps
// old sessions scorable after an inventory revision.
func ScoreRaw(answers AnswerSet, questions []Question) RawScores {
	raw := RawScores{}
	for _, q := range questions {
		if q.Scale == "" {
			continue
		}
		if _, ok := raw[q.Scale]; !ok {
			raw[q.Scale] = 0
		}
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		raw[q.Scale] += contribution(q, a)
	}
	return raw
}

// EnsureScales seeds a zero entry for every listed scale missing from r.
// A scale can carry a norm table without owning any items (SMIL's K works
// this way), and it must still flow through normalization and validity
// instead of silently dropping out of the score maps.
func (r RawScores) EnsureScales(scales ...string) RawScores {
	for _, s := range scales {
		if _, ok := r[s]; !ok {
			r[s] = 0
		}
	}
	return r
}

func contribution(q Question, a AnswerValue) int {
	switch a.Kind {
	case AnswerAffirmative:
		if q.Direction >= 0 {
			return 1
		}
		return 0
	case AnswerNegative:
		if q.Direction < 0 {
			return 1
		}
		return 0
	case AnswerOrdinal:
		return pointsForOption(q, a.Ordinal)
	default:
		// unknown / unanswered
		return 0
	}
}

// pointsForOption awards the option's value only when it is actually one of
// the question's defined options; a value outside the option set scores 0.
func pointsForOption(q Question, v int) int {
	for _, opt := range q.Options {
		if opt.Value == v {
			return v
		}
	}
	return 0
}
