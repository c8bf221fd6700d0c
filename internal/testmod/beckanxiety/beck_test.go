package beckanxiety

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

func uniformAnswers(m *Module, points int) scoring.AnswerSet {
	answers := scoring.AnswerSet{}
	for _, q := range m.Questions() {
		answers[q.ID] = scoring.Ordinal(points)
	}
	return answers
}

func TestQuestionsLoaded(t *testing.T) {
	m := newModule(t)
	if len(m.Questions()) != 21 {
		t.Fatalf("question count = %d, want 21", len(m.Questions()))
	}
	for _, q := range m.Questions() {
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options, want 4", q.ID, len(q.Options))
		}
	}
}

func TestLevelBands(t *testing.T) {
	cases := []struct {
		total int
		want  string
	}{
		{0, LevelMinimal},
		{21, LevelMinimal},
		{22, LevelModerate},
		{35, LevelModerate},
		{36, LevelHigh},
		{63, LevelHigh},
	}
	for _, c := range cases {
		if got := levelFor(c.total); got != c.want {
			t.Errorf("levelFor(%d) = %s, want %s", c.total, got, c.want)
		}
	}
}

func TestCalculateResultsSum(t *testing.T) {
	m := newModule(t)

	// All 21 items at 3 points -> max score, high band.
	res, err := m.CalculateResults(uniformAnswers(m, 3), scoring.Demographics{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	r := res.(*Result)
	if r.TotalScore != 63 || r.Percentage != 100 || r.Level != LevelHigh {
		t.Errorf("result = %+v", r)
	}

	// All at 1 point -> 21, still minimal.
	res, _ = m.CalculateResults(uniformAnswers(m, 1), scoring.Demographics{})
	r = res.(*Result)
	if r.TotalScore != 21 || r.Level != LevelMinimal {
		t.Errorf("total=%d level=%s, want 21/minimal", r.TotalScore, r.Level)
	}
	if r.Percentage != 33 {
		t.Errorf("percentage = %d, want 33", r.Percentage)
	}
}

func TestCalculateResultsPartial(t *testing.T) {
	m := newModule(t)
	answers := scoring.AnswerSet{
		1:  scoring.Ordinal(2),
		5:  scoring.Ordinal(3),
		99: scoring.Ordinal(3), // unknown id, ignored
	}
	res, err := m.CalculateResults(answers, scoring.Demographics{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	r := res.(*Result)
	if r.TotalScore != 5 || r.AnsweredCount != 2 {
		t.Errorf("total=%d answered=%d, want 5/2", r.TotalScore, r.AnsweredCount)
	}
	if len(r.SymptomScores) != 2 {
		t.Errorf("symptom scores = %v", r.SymptomScores)
	}
}

func TestCalculateResultsEmpty(t *testing.T) {
	m := newModule(t)
	if _, err := m.CalculateResults(scoring.AnswerSet{}, scoring.Demographics{}); err != scoring.ErrEmptyAnswers {
		t.Errorf("err = %v, want ErrEmptyAnswers", err)
	}
}

func TestTopSymptoms(t *testing.T) {
	symptoms := []SymptomScore{
		{QuestionID: 1, Score: 0},
		{QuestionID: 2, Score: 2},
		{QuestionID: 3, Score: 3},
		{QuestionID: 4, Score: 2},
		{QuestionID: 5, Score: 1},
		{QuestionID: 6, Score: 3},
	}
	top := TopSymptoms(symptoms, 3)
	if len(top) != 3 {
		t.Fatalf("top len = %d", len(top))
	}
	// Highest first; equal scores keep item order.
	if top[0].QuestionID != 3 || top[1].QuestionID != 6 || top[2].QuestionID != 2 {
		t.Errorf("top order = %v", top)
	}
}

func TestInterpretation(t *testing.T) {
	m := newModule(t)
	res, err := m.CalculateResults(uniformAnswers(m, 2), scoring.Demographics{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// 42 points -> high band.
	in, err := m.GenerateInterpretation(res)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if !strings.Contains(in.Summary, "42 из 63") || !strings.Contains(in.Summary, levelNames[LevelHigh]) {
		t.Errorf("summary = %q", in.Summary)
	}
	if in.Disclaimer == "" {
		t.Error("missing disclaimer")
	}
	if !reflect.DeepEqual(in.Recommendations, recommendations[LevelHigh]) {
		t.Errorf("recommendations = %v", in.Recommendations)
	}

	again, _ := m.GenerateInterpretation(res)
	if !reflect.DeepEqual(in, again) {
		t.Error("interpretation not idempotent")
	}
}

func TestRenderResults(t *testing.T) {
	m := newModule(t)
	res, err := m.CalculateResults(uniformAnswers(m, 2), scoring.Demographics{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	html, err := m.RenderResults(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := string(html)
	for _, want := range []string{"Шкала тревоги Бека", "из 63", "Наиболее выраженные симптомы", "Рекомендации"} {
		if !strings.Contains(s, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestParseResultRoundTrip(t *testing.T) {
	m := newModule(t)
	res, err := m.CalculateResults(uniformAnswers(m, 1), scoring.Demographics{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	data, _ := encodeResult(res)
	back, err := m.ParseResult(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(res, back) {
		t.Error("result did not survive persistence round trip")
	}
}
