// Package beckanxiety implements the Beck Anxiety Inventory (BAI): 21
// sum-scored items, three severity bands, per-level recommendations.
package beckanxiety

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/psyvista/psytest/internal/scoring"
	"github.com/psyvista/psytest/internal/testmod"

	_ "embed"
)

const Slug = "beck-anxiety"

// MaxScore is 21 items x 3 points.
const MaxScore = 63

const (
	LevelMinimal  = "minimal"
	LevelModerate = "moderate"
	LevelHigh     = "high"
)

// Band edges: 0-21 minimal, 22-35 moderate, 36-63 high.
const (
	minimalMax  = 21
	moderateMax = 35
)

var levelNames = map[string]string{
	LevelMinimal:  "Незначительная тревога",
	LevelModerate: "Средняя тревога",
	LevelHigh:     "Высокая тревога",
}

var interpretations = map[string]string{
	LevelMinimal:  "Значение до 21 балла включительно свидетельствует о незначительном уровне тревоги",
	LevelModerate: "Значение от 22 до 35 баллов означает среднюю выраженность тревоги",
	LevelHigh:     "Значение выше 36 баллов (при максимуме в 63 балла) свидетельствует об очень высокой тревоге",
}

var recommendations = map[string][]string{
	LevelMinimal: {
		"Уровень тревоги находится в пределах нормы",
		"Продолжайте практиковать здоровые coping-стратегии",
		"Поддерживайте баланс между работой и отдыхом",
		"Регулярная физическая активность поможет поддерживать эмоциональное равновесие",
	},
	LevelModerate: {
		"Уровень тревоги повышен, но находится в допустимых пределах",
		"Обратите внимание на источники стресса в вашей жизни",
		"Практикуйте техники релаксации (дыхательные упражнения, медитация)",
		"Рассмотрите возможность консультации с психологом для работы с тревогой",
		"Убедитесь, что вы получаете достаточно сна и отдыха",
	},
	LevelHigh: {
		"Уровень тревоги значительно повышен",
		"Рекомендуется обратиться к специалисту (психологу, психотерапевту)",
		"Высокая тревога может влиять на повседневное функционирование",
		"Специалист поможет подобрать эффективные стратегии управления тревогой",
	},
}

const disclaimer = "Результат носит ознакомительный характер и не заменяет очную консультацию специалиста."

//go:embed questions.json
var questionsJSON []byte

func init() {
	m, err := New()
	if err != nil {
		log.Fatalf("beck-anxiety: load module: %v", err)
	}
	testmod.Register(Slug, m)
}

type Module struct {
	questions []scoring.Question
	byID      map[int]scoring.Question
}

func New() (*Module, error) {
	var qs []scoring.Question
	if err := json.Unmarshal(questionsJSON, &qs); err != nil {
		return nil, fmt.Errorf("beck-anxiety: parse questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, scoring.ErrNoQuestions
	}
	byID := make(map[int]scoring.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	return &Module{questions: qs, byID: byID}, nil
}

func (m *Module) Meta() testmod.Meta {
	return testmod.Meta{
		Slug:          Slug,
		Name:          "Шкала тревоги Бека (BAI)",
		Description:   "Опросник для оценки выраженности тревожной симптоматики",
		QuestionCount: len(m.questions),
		EstimatedTime: 10,
	}
}

func (m *Module) Questions() []scoring.Question { return m.questions }

// SymptomScore is one item's contribution, kept for the "most expressed
// symptoms" breakdown.
type SymptomScore struct {
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"max_score"`
}

type Result struct {
	TotalScore     int            `json:"total_score"`
	MaxScore       int            `json:"max_score"`
	Percentage     int            `json:"percentage"`
	Level          string         `json:"level"`
	LevelName      string         `json:"level_name"`
	Interpretation string         `json:"interpretation"`
	AnsweredCount  int            `json:"answered_count"`
	TotalQuestions int            `json:"total_questions"`
	SymptomScores  []SymptomScore `json:"symptom_scores"`
}

func (r *Result) TestSlug() string { return Slug }

func (r *Result) Completion() testmod.Completion {
	rate := 0.0
	if r.TotalQuestions > 0 {
		rate = math.Round(float64(r.AnsweredCount)/float64(r.TotalQuestions)*1000) / 10
	}
	return testmod.Completion{
		AnsweredCount:  r.AnsweredCount,
		TotalQuestions: r.TotalQuestions,
		Rate:           rate,
	}
}

// CalculateResults sums the selected option values and buckets the total
// into the three severity bands. Answers for unknown item ids are ignored.
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

	raw := scoring.ScoreRaw(answers, m.questions)
	total := raw["total"]

	answered := 0
	symptoms := make([]SymptomScore, 0, len(answers))
	for _, q := range m.questions {
		a, ok := answers[q.ID]
		if !ok || !a.Answered() {
			continue
		}
		answered++
		points := 0
		if a.Kind == scoring.AnswerOrdinal {
			for _, opt := range q.Options {
				if opt.Value == a.Ordinal {
					points = opt.Value
				}
			}
		}
		symptoms = append(symptoms, SymptomScore{QuestionID: q.ID, Text: q.Text, Score: points, MaxScore: 3})
	}

	level := levelFor(total)
	return &Result{
		TotalScore:     total,
		MaxScore:       MaxScore,
		Percentage:     int(math.Round(float64(total) / MaxScore * 100)),
		Level:          level,
		LevelName:      levelNames[level],
		Interpretation: interpretations[level],
		AnsweredCount:  answered,
		TotalQuestions: len(m.questions),
		SymptomScores:  symptoms,
	}, nil
}

func levelFor(total int) string {
	switch {
	case total <= minimalMax:
		return LevelMinimal
	case total <= moderateMax:
		return LevelModerate
	default:
		return LevelHigh
	}
}

func (m *Module) GenerateInterpretation(res testmod.Result) (testmod.Interpretation, error) {
	r, ok := res.(*Result)
	if !ok {
		return testmod.Interpretation{}, fmt.Errorf("beck-anxiety: unexpected result type %T", res)
	}
	return testmod.Interpretation{
		Summary: fmt.Sprintf("Ваш результат: %d из %d баллов (%s). %s",
			r.TotalScore, r.MaxScore, r.LevelName, r.Interpretation),
		Level:           r.Level,
		LevelName:       r.LevelName,
		Scales:          []testmod.ScaleEntry{},
		Recommendations: append([]string(nil), recommendations[r.Level]...),
		Disclaimer:      disclaimer,
	}, nil
}

func (m *Module) ParseResult(data []byte) (testmod.Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("beck-anxiety: parse result: %w", err)
	}
	return &r, nil
}

func (m *Module) SupportsPairMode() bool { return false }

func (m *Module) ComparePairResults(a, b testmod.Result) testmod.Comparison {
	return testmod.BundlePair(a, b)
}

// TopSymptoms returns the most expressed symptoms (score > 0), highest
// first, ties in item order.
func TopSymptoms(symptoms []SymptomScore, limit int) []SymptomScore {
	out := make([]SymptomScore, 0, len(symptoms))
	for _, s := range symptoms {
		if s.Score > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}
