package scoring

import (
	"math"
	"sort"
)

// NormTable maps raw score breakpoints to normalized T-scores for one scale.
// Sparse by design: raw values between breakpoints are linearly interpolated,
// values outside the tabulated range clamp to the nearest edge.
type NormTable map[int]float64

// NormTables holds the per-scale tables for one gender.
type NormTables map[string]NormTable

// NeutralT is returned when a scale has no normative data at all.
const NeutralT = 50.0

// Lookup resolves a raw score to a T-score. Exact breakpoints return the
// tabulated value; otherwise the two nearest breakpoints are interpolated and
// the result rounded to one decimal place.
func (t NormTable) Lookup(raw int) float64 {
	if len(t) == 0 {
		return NeutralT
	}
	if v, ok := t[raw]; ok {
		return v
	}

	keys := t.breakpoints()
	lo, hi := keys[0], keys[len(keys)-1]
	if raw < lo {
		return t[lo]
	}
	if raw > hi {
		return t[hi]
	}
	// raw sits strictly between two breakpoints
	i := sort.SearchInts(keys, raw)
	lower, upper := keys[i-1], keys[i]
	ratio := float64(raw-lower) / float64(upper-lower)
	return Round1(t[lower] + ratio*(t[upper]-t[lower]))
}

// Monotonic reports whether T values never decrease as raw scores grow.
// A false result indicates a malformed table; norm tables are non-decreasing
// by construction.
func (t NormTable) Monotonic() bool {
	keys := t.breakpoints()
	for i := 1; i < len(keys); i++ {
		if t[keys[i]] < t[keys[i-1]] {
			return false
		}
	}
	return true
}

func (t NormTable) breakpoints() []int {
	keys := make([]int, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Normalize converts raw sums to T-scores through the given table set.
// Scales absent from the tables fall back to NeutralT, the documented
// "no normative data, treat as average" default.
func Normalize(raw RawScores, tables NormTables) ScaleScores {
	t := make(ScaleScores, len(raw))
	for scale, r := range raw {
		table, ok := tables[scale]
		if !ok {
			t[scale] = NeutralT
			continue
		}
		t[scale] = table.Lookup(r)
	}
	return t
}

// Round1 rounds to one decimal place. Every derived score in the package
// goes through this one helper so half-up behavior is uniform, negatives
// included.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }
