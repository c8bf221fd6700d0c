// Package smil implements the SMIL (MMPI) personality inventory module:
// 3 validity scales (L, F, K), 9 clinical scales, gendered T-score tables,
// K-correction and profile interpretation. Sobchik adaptation.
package smil

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/psyvista/psytest/internal/scoring"
	"github.com/psyvista/psytest/internal/testmod"

	_ "embed"
)

// Slug identifies this module in the registry and in session rows.
const Slug = "smil"

//go:embed questions.json
var questionsJSON []byte

func init() {
	m, err := New()
	if err != nil {
		log.Fatalf("smil: load module: %v", err)
	}
	testmod.Register(Slug, m)
}

type Module struct {
	questions []scoring.Question
}

func New() (*Module, error) {
	var qs []scoring.Question
	if err := json.Unmarshal(questionsJSON, &qs); err != nil {
		return nil, fmt.Errorf("smil: parse questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, scoring.ErrNoQuestions
	}
	return &Module{questions: qs}, nil
}

func (m *Module) Meta() testmod.Meta {
	return testmod.Meta{
		Slug:               Slug,
		Name:               "СМИЛ (MMPI)",
		Description:        "Стандартизированный многофакторный метод исследования личности",
		QuestionCount:      len(m.questions),
		EstimatedTime:      60,
		Scales:             append(append([]string{}, validityScales...), clinicalScales...),
		ValidityScales:     validityScales,
		ClinicalScales:     clinicalScales,
		SupportsGenderNorm: true,
	}
}

func (m *Module) Questions() []scoring.Question { return m.questions }

// Result is one frozen SMIL scoring run.
type Result struct {
	RawScores       scoring.RawScores   `json:"raw_scores"`
	TScores         scoring.ScaleScores `json:"t_scores"`
	CorrectedScores scoring.ScaleScores `json:"corrected_scores"`
	Validity        scoring.Validity    `json:"validity"`
	Profile         scoring.Profile     `json:"profile"`
	Gender          scoring.Gender      `json:"gender"`
	GenderDefaulted bool                `json:"gender_defaulted,omitempty"`
	AnsweredCount   int                 `json:"answered_count"`
	TotalQuestions  int                 `json:"total_questions"`
	CompletionRate  float64             `json:"completion_rate"`
}

func (r *Result) TestSlug() string { return Slug }

func (r *Result) Completion() testmod.Completion {
	return testmod.Completion{
		AnsweredCount:  r.AnsweredCount,
		TotalQuestions: r.TotalQuestions,
		Rate:           r.CompletionRate,
	}
}

// CalculateResults runs the pipeline: raw sums -> T-scores -> validity ->
// K-correction -> profile. Pure; identical inputs produce identical results.
// An unspecified gender falls back to the male tables and is flagged on the
// Result so callers can disclose the assumption.
func (m *Module) CalculateResults(answers scoring.AnswerSet, demo scoring.Demographics) (testmod.Result, error) {
	if len(m.questions) == 0 {
		return nil, scoring.ErrNoQuestions
	}
	if len(answers) == 0 {
		return nil, scoring.ErrEmptyAnswers
	}
	if !demo.Gender.Valid() {
		return nil, scoring.ErrBadGender
	}

	gender := demo.Gender
	defaulted := false
	if gender == scoring.GenderUnspecified {
		gender = scoring.GenderMale
		defaulted = true
	}
	tables := normsMale
	if gender == scoring.GenderFemale {
		tables = normsFemale
	}

	raw := scoring.ScoreRaw(answers, m.questions)
	// K carries a norm table but no items of its own; seed it (and any other
	// zero-item scale) so it reaches normalization with raw 0.
	raw.EnsureScales(validityScales...)
	raw.EnsureScales(clinicalScales...)
	tScores := scoring.Normalize(raw, tables)
	validity := scoring.AssessValidity(tScores)
	corrected := scoring.ApplyCorrection(tScores, raw[scoring.ScaleK], kCorrections)
	profile := scoring.BuildProfile(corrected, clinicalScales, scaleNames, interpretations, profileRules)

	answered := 0
	for _, a := range answers {
		if a.Answered() {
			answered++
		}
	}

	return &Result{
		RawScores:       raw,
		TScores:         tScores,
		CorrectedScores: corrected,
		Validity:        validity,
		Profile:         profile,
		Gender:          gender,
		GenderDefaulted: defaulted,
		AnsweredCount:   answered,
		TotalQuestions:  len(m.questions),
		CompletionRate:  scoring.Round1(float64(answered) / float64(len(m.questions)) * 100),
	}, nil
}

func (m *Module) ParseResult(data []byte) (testmod.Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("smil: parse result: %w", err)
	}
	return &r, nil
}

// Pair mode links two completed profiles side by side. No differencing,
// the comparison simply bundles both results.
func (m *Module) SupportsPairMode() bool { return true }

func (m *Module) ComparePairResults(a, b testmod.Result) testmod.Comparison {
	return testmod.BundlePair(a, b)
}
