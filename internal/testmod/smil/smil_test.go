package smil

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/psyvista/psytest/internal/scoring"
	"github.com/psyvista/psytest/internal/testmod"
)

func encodeResult(r testmod.Result) ([]byte, error) { return json.Marshal(r) }

func newModule(t *testing.T) *Module {
	t.Helper()
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// allNegative answers "no" to every question.
func allNegative(m *Module) scoring.AnswerSet {
	answers := scoring.AnswerSet{}
	for _, q := range m.Questions() {
		answers[q.ID] = scoring.Negative()
	}
	return answers
}

func TestQuestionsLoaded(t *testing.T) {
	m := newModule(t)
	if len(m.Questions()) != 50 {
		t.Fatalf("question count = %d, want 50", len(m.Questions()))
	}
	meta := m.Meta()
	if meta.QuestionCount != 50 || !meta.SupportsGenderNorm {
		t.Errorf("meta = %+v", meta)
	}
	if len(meta.ClinicalScales) != 9 || len(meta.ValidityScales) != 3 {
		t.Errorf("scale lists = %v / %v", meta.ClinicalScales, meta.ValidityScales)
	}
}

func TestCalculateResultsInputErrors(t *testing.T) {
	m := newModule(t)
	if _, err := m.CalculateResults(scoring.AnswerSet{}, scoring.Demographics{}); err != scoring.ErrEmptyAnswers {
		t.Errorf("empty answers: err = %v", err)
	}
	answers := scoring.AnswerSet{1: scoring.Affirmative()}
	if _, err := m.CalculateResults(answers, scoring.Demographics{Gender: "other"}); err != scoring.ErrBadGender {
		t.Errorf("bad gender: err = %v", err)
	}
}

func TestCalculateResultsDeterministic(t *testing.T) {
	m := newModule(t)
	answers := allNegative(m)
	a, err := m.CalculateResults(answers, scoring.Demographics{Gender: scoring.GenderFemale})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	b, _ := m.CalculateResults(answers, scoring.Demographics{Gender: scoring.GenderFemale})
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different results")
	}
}

func TestGenderDefaultsToMaleWithFlag(t *testing.T) {
	m := newModule(t)
	answers := allNegative(m)

	res, err := m.CalculateResults(answers, scoring.Demographics{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	r := res.(*Result)
	if r.Gender != scoring.GenderMale || !r.GenderDefaulted {
		t.Errorf("gender=%s defaulted=%v, want male/defaulted", r.Gender, r.GenderDefaulted)
	}

	explicit, _ := m.CalculateResults(answers, scoring.Demographics{Gender: scoring.GenderMale})
	if explicit.(*Result).GenderDefaulted {
		t.Error("explicit male must not be flagged as defaulted")
	}
}

func TestGenderSelectsNormTables(t *testing.T) {
	m := newModule(t)
	// One affirmative on a depression item: raw["2"] = 1.
	answers := scoring.AnswerSet{6: scoring.Affirmative()}

	male, err := m.CalculateResults(answers, scoring.Demographics{Gender: scoring.GenderMale})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	female, _ := m.CalculateResults(answers, scoring.Demographics{Gender: scoring.GenderFemale})

	mt := male.(*Result).TScores["2"]
	ft := female.(*Result).TScores["2"]
	// male table starts at 40, female at 45; raw 1 interpolates to 42 vs 47.
	if mt != 42 || ft != 47 {
		t.Errorf("T(2): male=%v female=%v, want 42/47", mt, ft)
	}
}

func TestKScaleScoredWithoutItems(t *testing.T) {
	m := newModule(t)
	// No item keys to K, but K still carries a norm table: raw 0 must flow
	// through the reverse-keyed male table (0 -> T 55) and into F-K.
	res, err := m.CalculateResults(allNegative(m), scoring.Demographics{Gender: scoring.GenderMale})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	r := res.(*Result)
	if v, ok := r.RawScores[scoring.ScaleK]; !ok || v != 0 {
		t.Fatalf("raw K = %d (present=%v), want 0", v, ok)
	}
	if r.TScores[scoring.ScaleK] != 55 {
		t.Errorf("T(K) = %v, want 55", r.TScores[scoring.ScaleK])
	}
	if _, ok := r.CorrectedScores[scoring.ScaleK]; !ok {
		t.Error("corrected scores lost the K scale")
	}
	if r.Validity.KScore != 55 {
		t.Errorf("validity K = %v, want 55", r.Validity.KScore)
	}
	if want := r.Validity.FScore - 55; r.Validity.FKIndex != want {
		t.Errorf("F-K = %v, want %v", r.Validity.FKIndex, want)
	}
}

func TestResultCompletion(t *testing.T) {
	m := newModule(t)
	answers := scoring.AnswerSet{6: scoring.Affirmative(), 13: scoring.Negative()}
	res, err := m.CalculateResults(answers, scoring.Demographics{Gender: scoring.GenderMale})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	c := res.Completion()
	if c.AnsweredCount != 2 || c.TotalQuestions != 50 || c.Rate != 4.0 {
		t.Errorf("completion = %+v", c)
	}
}

func TestRawScoresStayWithinItemCounts(t *testing.T) {
	m := newModule(t)
	// Everything affirmative: each scale's raw score is bounded by its item count.
	answers := scoring.AnswerSet{}
	for _, q := range m.Questions() {
		answers[q.ID] = scoring.Affirmative()
	}
	res, err := m.CalculateResults(answers, scoring.Demographics{Gender: scoring.GenderMale})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	counts := map[string]int{}
	for _, q := range m.Questions() {
		if q.Scale != "" {
			counts[q.Scale]++
		}
	}
	for scale, raw := range res.(*Result).RawScores {
		if raw < 0 || raw > counts[scale] {
			t.Errorf("scale %s raw=%d outside [0,%d]", scale, raw, counts[scale])
		}
	}
}

func TestCodeTypeFormat(t *testing.T) {
	m := newModule(t)
	res, err := m.CalculateResults(allNegative(m), scoring.Demographics{Gender: scoring.GenderMale})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	r := res.(*Result)
	parts := strings.Split(r.Profile.CodeType, "-")
	if len(parts) != 2 {
		t.Fatalf("code type = %q", r.Profile.CodeType)
	}
	clinical := map[string]bool{}
	for _, c := range clinicalScales {
		clinical[c] = true
	}
	if !clinical[parts[0]] || !clinical[parts[1]] {
		t.Errorf("code type %q uses non-clinical codes", r.Profile.CodeType)
	}
	if r.CorrectedScores[parts[0]] < r.CorrectedScores[parts[1]] {
		t.Errorf("code type %q not ordered by score", r.Profile.CodeType)
	}
}

func validResult() *Result {
	corrected := scoring.ScaleScores{}
	for _, c := range clinicalScales {
		corrected[c] = 50
	}
	corrected["2"] = 68
	corrected["1"] = 62
	profile := scoring.BuildProfile(corrected, clinicalScales, scaleNames, interpretations, profileRules)
	return &Result{
		CorrectedScores: corrected,
		TScores:         corrected,
		Validity:        scoring.Validity{IsValid: true, LScore: 50, FScore: 50, KScore: 50},
		Profile:         profile,
		Gender:          scoring.GenderMale,
		AnsweredCount:   50,
		TotalQuestions:  50,
		CompletionRate:  100,
	}
}

func TestInterpretationValidBranch(t *testing.T) {
	m := newModule(t)
	r := validResult()

	in, err := m.GenerateInterpretation(r)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if !strings.HasPrefix(in.Summary, "Код профиля: 2-1.") {
		t.Errorf("summary = %q", in.Summary)
	}
	if in.ProfileType != string(scoring.ProfileNeurotic) {
		t.Errorf("profile type = %q", in.ProfileType)
	}
	if len(in.Scales) != len(clinicalScales) {
		t.Errorf("scales len = %d", len(in.Scales))
	}
	if len(in.Recommendations) == 0 || in.Recommendations[0] != disclaimerLine {
		t.Errorf("disclaimer must come first: %v", in.Recommendations)
	}
	// "2" at 68 is high -> elevated advice appended last.
	if in.Recommendations[len(in.Recommendations)-1] != elevatedAdviceLine {
		t.Errorf("missing elevated advice: %v", in.Recommendations)
	}
}

func TestInterpretationInvalidShortCircuits(t *testing.T) {
	m := newModule(t)
	r := validResult()
	r.Validity = scoring.Validity{
		IsValid:  false,
		Warnings: []string{scoring.WarnHighL, scoring.WarnVeryHighF},
	}

	in, err := m.GenerateInterpretation(r)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if len(in.Scales) != 0 {
		t.Errorf("invalid result must have no scale narrative: %v", in.Scales)
	}
	for _, w := range r.Validity.Warnings {
		if !strings.Contains(in.Summary, w) {
			t.Errorf("summary missing warning %q", w)
		}
	}
	if !reflect.DeepEqual(in.Recommendations, invalidRecommendations) {
		t.Errorf("recommendations = %v", in.Recommendations)
	}
}

func TestInterpretationIdempotent(t *testing.T) {
	m := newModule(t)
	r := validResult()
	a, _ := m.GenerateInterpretation(r)
	b, _ := m.GenerateInterpretation(r)
	if !reflect.DeepEqual(a, b) {
		t.Error("interpretation not idempotent")
	}
}

func TestRenderResults(t *testing.T) {
	m := newModule(t)
	html, err := m.RenderResults(validResult())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := string(html)
	for _, want := range []string{"Оценка достоверности", "smilProfileChart", "Депрессия (D)", "Код профиля"} {
		if !strings.Contains(s, want) {
			t.Errorf("render output missing %q", want)
		}
	}
}

func TestRenderInvalidResults(t *testing.T) {
	m := newModule(t)
	r := validResult()
	r.Validity = scoring.Validity{IsValid: false, Warnings: []string{scoring.WarnHighL}}
	html, err := m.RenderResults(r)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), "Результаты недостоверны") {
		t.Errorf("invalid render = %s", html)
	}
	if strings.Contains(string(html), "smilProfileChart") {
		t.Error("invalid render must not include the profile chart")
	}
}

func TestParseResultRoundTrip(t *testing.T) {
	m := newModule(t)
	res, err := m.CalculateResults(allNegative(m), scoring.Demographics{Gender: scoring.GenderFemale})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	data, err := encodeResult(res)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := m.ParseResult(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(res, back) {
		t.Error("result did not survive persistence round trip")
	}
}
