package scoring

// ApplyCorrection adds a weighted portion of the proxy scale's raw magnitude
// onto each configured target scale: corrected[s] = t[s] + rawProxy*weight[s],
// rounded to one decimal place. Scales without a weight pass through
// unchanged. The weight table is static test configuration.
func ApplyCorrection(t ScaleScores, rawProxy int, weights map[string]float64) ScaleScores {
	corrected := make(ScaleScores, len(t))
	for scale, score := range t {
		corrected[scale] = score
	}
	for scale, w := range weights {
		if base, ok := corrected[scale]; ok {
			corrected[scale] = Round1(base + float64(rawProxy)*w)
		}
	}
	return corrected
}
