package smil

import (
	"fmt"
	"strings"

	"github.com/psyvista/psytest/internal/scoring"
	"github.com/psyvista/psytest/internal/testmod"
)

// GenerateInterpretation assembles the narrative for a scoring run. An
// invalid administration is a terminal branch: the summary carries every
// validity warning verbatim, no per-scale narrative is produced and the only
// recommendations are to retest candidly or seek in-person evaluation.
func (m *Module) GenerateInterpretation(res testmod.Result) (testmod.Interpretation, error) {
	r, ok := res.(*Result)
	if !ok {
		return testmod.Interpretation{}, fmt.Errorf("smil: unexpected result type %T", res)
	}

	if !r.Validity.IsValid {
		return testmod.Interpretation{
			Summary:         invalidSummary + strings.Join(r.Validity.Warnings, "; "),
			Warnings:        append([]string(nil), r.Validity.Warnings...),
			Scales:          []testmod.ScaleEntry{},
			Recommendations: append([]string(nil), invalidRecommendations...),
		}, nil
	}

	desc, ok := typeDescriptions[r.Profile.ProfileType]
	if !ok {
		desc = "Требуется профессиональная интерпретация."
	}

	out := testmod.Interpretation{
		Summary:     fmt.Sprintf("Код профиля: %s. %s", r.Profile.CodeType, desc),
		ProfileType: string(r.Profile.ProfileType),
		CodeType:    r.Profile.CodeType,
		Scales:      make([]testmod.ScaleEntry, 0, len(clinicalScales)),
	}

	for _, code := range clinicalScales {
		e, ok := r.Profile.Scales[code]
		if !ok {
			continue
		}
		out.Scales = append(out.Scales, testmod.ScaleEntry{
			Code:        e.Code,
			Name:        e.Name,
			Score:       e.Score,
			Level:       string(e.Level),
			Description: e.Interpretation,
		})
	}

	out.Recommendations = append(out.Recommendations, disclaimerLine)
	out.Recommendations = append(out.Recommendations, typeRecommendations[r.Profile.ProfileType]...)
	if hasElevated(r.Profile) {
		out.Recommendations = append(out.Recommendations, elevatedAdviceLine)
	}

	return out, nil
}

func hasElevated(p scoring.Profile) bool {
	for _, e := range p.Scales {
		if e.Level == scoring.LevelHigh || e.Level == scoring.LevelVeryHigh {
			return true
		}
	}
	return false
}
