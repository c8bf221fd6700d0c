// Package testmod defines the contract every test module implements and the
// registry the rest of the application resolves modules through.
package testmod

import (
	"html/template"

	"github.com/psyvista/psytest/internal/scoring"
)

// Meta describes a test for listings and routing.
type Meta struct {
	Slug               string   `json:"slug"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	QuestionCount      int      `json:"question_count"`
	EstimatedTime      int      `json:"estimated_time"` // minutes
	Scales             []string `json:"scales,omitempty"`
	ValidityScales     []string `json:"validity_scales,omitempty"`
	ClinicalScales     []string `json:"clinical_scales,omitempty"`
	SupportsGenderNorm bool     `json:"supports_gender_norms"`
}

// Completion tracks how much of the inventory was answered.
type Completion struct {
	AnsweredCount  int     `json:"answered_count"`
	TotalQuestions int     `json:"total_questions"`
	Rate           float64 `json:"completion_rate"`
}

// Result is the frozen output of one scoring run. Each module returns its
// own concrete type; consumers that need more than the common surface
// type-assert inside the owning module.
type Result interface {
	TestSlug() string
	Completion() Completion
}

// ScaleEntry is one scale's row in an interpretation.
type ScaleEntry struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
}

// Interpretation is the natural-language rendering of a Result. A failed
// validity check produces the Warnings branch: Scales stays empty and the
// Summary carries every warning verbatim.
type Interpretation struct {
	Summary         string       `json:"summary"`
	ProfileType     string       `json:"profile_type,omitempty"`
	CodeType        string       `json:"code_type,omitempty"`
	Level           string       `json:"level,omitempty"`
	LevelName       string       `json:"level_name,omitempty"`
	Scales          []ScaleEntry `json:"scales"`
	Recommendations []string     `json:"recommendations"`
	Warnings        []string     `json:"warnings,omitempty"`
	Disclaimer      string       `json:"disclaimer,omitempty"`
}

// Comparison bundles two results for pair mode. Differences stays empty in
// the default implementation; modules that support real differencing fill it.
type Comparison struct {
	Results1    Result                 `json:"results_1"`
	Results2    Result                 `json:"results_2"`
	Differences map[string]interface{} `json:"differences"`
}

// Module is the facade each test exposes to the surrounding application.
// CalculateResults runs the full pipeline once and is pure: the same answers
// and demographics always produce an identical Result.
type Module interface {
	Meta() Meta
	Questions() []scoring.Question

	CalculateResults(answers scoring.AnswerSet, demo scoring.Demographics) (Result, error)
	GenerateInterpretation(r Result) (Interpretation, error)
	RenderResults(r Result) (template.HTML, error)

	// ParseResult decodes a Result previously persisted as JSON.
	ParseResult(data []byte) (Result, error)

	SupportsPairMode() bool
	ComparePairResults(a, b Result) Comparison
}

// BundlePair is the default ComparePairResults body: both results, no
// computed differences.
func BundlePair(a, b Result) Comparison {
	return Comparison{Results1: a, Results2: b, Differences: map[string]interface{}{}}
}
