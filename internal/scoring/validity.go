package scoring

// Scale codes with fixed roles in validity assessment.
const (
	ScaleL = "L" // social desirability ("lie")
	ScaleF = "F" // infrequency
	ScaleK = "K" // defensiveness / correction
)

// Validity thresholds on T-scores.
const (
	lieInvalidT        = 65
	infreqInvalidT     = 70
	infreqWarnT        = 65
	defensiveHighT     = 65
	defensiveLowT      = 35
	fkMalingeringIndex = 20
	fkDissimulIndex    = -15
)

const (
	WarnHighL      = "Высокая социальная желательность - результаты могут быть недостоверны"
	WarnVeryHighF  = "Высокий показатель F - возможны случайные ответы или преувеличение проблем"
	WarnElevatedF  = "Повышенный показатель F - возможна тенденция к преувеличению"
	WarnHighK      = "Высокая защитная позиция - клинические шкалы могут быть занижены"
	WarnLowK       = "Низкая защитная позиция - возможна излишняя откровенность"
	WarnMalingering = "Индекс F-K повышен - возможна симуляция"
	WarnDissimulation = "Индекс F-K понижен - возможна диссимуляция"
)

// Validity is the verdict over the L/F/K validity scales. It is ordinary
// result data: an invalid administration is a successfully computed outcome,
// not an error.
type Validity struct {
	IsValid  bool     `json:"is_valid"`
	Warnings []string `json:"warnings"`
	LScore   float64  `json:"L_score"`
	FScore   float64  `json:"F_score"`
	KScore   float64  `json:"K_score"`
	FKIndex  float64  `json:"FK_index"`
}

// AssessValidity applies the fixed threshold rules against the normalized
// validity scales. Only L >= 65 and F >= 70 flip the overall verdict; every
// other rule contributes a warning without invalidating. Warnings accumulate
// in evaluation order: L, F, K, then the F-K index.
func AssessValidity(t ScaleScores) Validity {
	l, f, k := scoreOr(t, ScaleL, NeutralT), scoreOr(t, ScaleF, NeutralT), scoreOr(t, ScaleK, NeutralT)

	v := Validity{
		IsValid: true,
		LScore:  l,
		FScore:  f,
		KScore:  k,
		FKIndex: f - k,
	}

	if l >= lieInvalidT {
		v.IsValid = false
		v.Warnings = append(v.Warnings, WarnHighL)
	}

	switch {
	case f >= infreqInvalidT:
		v.IsValid = false
		v.Warnings = append(v.Warnings, WarnVeryHighF)
	case f >= infreqWarnT:
		v.Warnings = append(v.Warnings, WarnElevatedF)
	}

	switch {
	case k >= defensiveHighT:
		v.Warnings = append(v.Warnings, WarnHighK)
	case k <= defensiveLowT:
		v.Warnings = append(v.Warnings, WarnLowK)
	}

	switch {
	case v.FKIndex > fkMalingeringIndex:
		v.Warnings = append(v.Warnings, WarnMalingering)
	case v.FKIndex < fkDissimulIndex:
		v.Warnings = append(v.Warnings, WarnDissimulation)
	}

	return v
}

func scoreOr(t ScaleScores, scale string, def float64) float64 {
	if v, ok := t[scale]; ok {
		return v
	}
	return def
}
