package smil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/psyvista/psytest/internal/scoring"
	"github.com/psyvista/psytest/internal/testmod"
)

var invalidTmpl = template.Must(template.New("smil-invalid").Parse(`<div class="smil-results smil-invalid">
  <div class="alert alert-warning">
    <h3>⚠️ Результаты недостоверны</h3>
    <p>К сожалению, результаты тестирования не могут быть считаны достоверными по следующим причинам:</p>
    <p><strong>{{range $i, $w := .Warnings}}{{if $i}}<br>{{end}}{{$w}}{{end}}</strong></p>
    <p>Рекомендуется пройти тестирование повторно, отвечая более внимательно и искренне.</p>
  </div>
</div>
`))

var resultsTmpl = template.Must(template.New("smil-results").Parse(`<div class="smil-results">
  <div class="validity-section status-{{if .Validity.IsValid}}valid{{else}}invalid{{end}}">
    <h3>Оценка достоверности</h3>
    <div class="validity-indicators">
      <div class="indicator"><span class="label">L (Ложь):</span> <span class="value">{{.Validity.LScore}}</span></div>
      <div class="indicator"><span class="label">F (Достоверность):</span> <span class="value">{{.Validity.FScore}}</span></div>
      <div class="indicator"><span class="label">K (Коррекция):</span> <span class="value">{{.Validity.KScore}}</span></div>
      <div class="indicator"><span class="label">F-K индекс:</span> <span class="value">{{.Validity.FKIndex}}</span></div>
    </div>
    <div class="validity-status">{{if .Validity.IsValid}}✓ Достоверно{{else}}⚠️ Недостоверно{{end}}</div>
  </div>
  <div class="profile-chart-container">
    <h3>Профиль личности</h3>
    <canvas id="smilProfileChart" data-scores='{{.ChartScores}}' data-labels='{{.ChartLabels}}'></canvas>
  </div>
  <table class="scores-table">
    <thead><tr><th>Шкала</th><th>T-балл</th><th>Уровень</th><th>Интерпретация</th></tr></thead>
    <tbody>
    {{range .Scales}}<tr class="level-{{.Level}}">
      <td><strong>{{.Name}}</strong></td>
      <td class="score">{{.Score}}</td>
      <td>{{.LevelName}}</td>
      <td>{{.Interpretation}}</td>
    </tr>
    {{end}}</tbody>
  </table>
  <div class="interpretation-section">
    <h3>Интерпретация</h3>
    <p><strong>Тип профиля:</strong> {{.TypeName}}</p>
    <p><strong>Код профиля:</strong> {{.CodeType}}</p>
    {{if .Dominant}}<h4>Наиболее выраженные шкалы:</h4>
    <ul>
    {{range .Dominant}}<li><strong>{{.Name}}</strong>: {{.Score}} T-баллов</li>
    {{end}}</ul>{{end}}
  </div>
</div>
`))

type scaleRow struct {
	Name           string
	Score          float64
	Level          scoring.Level
	LevelName      string
	Interpretation string
}

// RenderResults produces the display-ready HTML for a scoring run: validity
// block, chart placeholder consumed by the front-end chart script, scores
// table and interpretation section. Invalid runs render only the warning card.
func (m *Module) RenderResults(res testmod.Result) (template.HTML, error) {
	r, ok := res.(*Result)
	if !ok {
		return "", fmt.Errorf("smil: unexpected result type %T", res)
	}

	var buf bytes.Buffer
	if !r.Validity.IsValid {
		if err := invalidTmpl.Execute(&buf, r.Validity); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	}

	chartCodes := []string{"Hs", "D", "Hy", "Pd", "Pa", "Pt", "Sc", "Ma", "Si"}
	chartScores := make([]float64, 0, len(clinicalScales))
	for _, code := range clinicalScales {
		v, ok := r.TScores[code]
		if !ok {
			v = scoring.NeutralT
		}
		chartScores = append(chartScores, v)
	}
	scoresJSON, _ := json.Marshal(chartScores)
	labelsJSON, _ := json.Marshal(chartCodes)

	rows := make([]scaleRow, 0, len(clinicalScales))
	for _, code := range clinicalScales {
		e, ok := r.Profile.Scales[code]
		if !ok {
			continue
		}
		rows = append(rows, scaleRow{
			Name:           e.Name,
			Score:          e.Score,
			Level:          e.Level,
			LevelName:      levelNames[e.Level],
			Interpretation: e.Interpretation,
		})
	}

	typeName, ok := typeNames[r.Profile.ProfileType]
	if !ok {
		typeName = string(r.Profile.ProfileType)
	}

	data := struct {
		Validity    scoring.Validity
		ChartScores string
		ChartLabels string
		Scales      []scaleRow
		TypeName    string
		CodeType    string
		Dominant    []scoring.ScaleEntry
	}{
		Validity:    r.Validity,
		ChartScores: string(scoresJSON),
		ChartLabels: string(labelsJSON),
		Scales:      rows,
		TypeName:    typeName,
		CodeType:    r.Profile.CodeType,
		Dominant:    r.Profile.Dominant,
	}
	if err := resultsTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
