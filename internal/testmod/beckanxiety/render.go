package beckanxiety

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/psyvista/psytest/internal/testmod"
)

var levelColors = map[string]string{
	LevelMinimal:  "#27ae60",
	LevelModerate: "#f39c12",
	LevelHigh:     "#e74c3c",
}

var resultsTmpl = template.Must(template.New("bai-results").Parse(`<div class="bai-results">
  <div class="results-header">
    <h2>Результаты тестирования</h2>
    <p class="test-subtitle">Шкала тревоги Бека (BAI)</p>
  </div>
  <div class="score-card" style="border-left: 4px solid {{.Color}};">
    <div class="score-main">
      <span class="score-value">{{.R.TotalScore}}</span>
      <span class="score-max">из {{.R.MaxScore}}</span>
    </div>
    <div class="score-percentage">{{.R.Percentage}}% от максимума</div>
    <div class="score-level" style="color: {{.Color}}"><strong>{{.R.LevelName}}</strong></div>
  </div>
  <div class="severity-scale-container">
    <h3>Шкала выраженности тревоги</h3>
    <div class="severity-scale">
      <div class="scale-segment minimal" title="0-21: Неглубокая тревога"></div>
      <div class="scale-segment moderate" title="22-35: Средняя тревога"></div>
      <div class="scale-segment high" title="36-63: Высокая тревога"></div>
    </div>
    <div class="scale-marker" style="left: {{printf "%.1f" .MarkerPct}}%"></div>
    <div class="scale-legend">
      <div class="legend-item"><span class="dot minimal"></span> 0-21: Неглубокая тревога</div>
      <div class="legend-item"><span class="dot moderate"></span> 22-35: Средняя тревога</div>
      <div class="legend-item"><span class="dot high"></span> 36-63: Высокая тревога</div>
    </div>
  </div>
  <div class="interpretation-card">
    <h3>Интерпретация результата</h3>
    <p class="interpretation-text">{{.R.Interpretation}}</p>
  </div>
  {{if .TopSymptoms}}<div class="symptoms-card">
    <h3>Наиболее выраженные симптомы</h3>
    <ul class="symptoms-list">
    {{range .TopSymptoms}}<li><span class="symptom-name">{{.Text}}</span> <span class="symptom-score">{{.Score}}/3</span></li>
    {{end}}</ul>
  </div>{{end}}
  {{if .Recommendations}}<div class="recommendations-card">
    <h3>Рекомендации</h3>
    <ul class="recommendations-list">
    {{range .Recommendations}}<li>{{.}}</li>
    {{end}}</ul>
  </div>{{end}}
  <div class="disclaimer-card">
    <p><strong>Важно:</strong> Данный результат носит ознакомительный характер и не является клиническим диагнозом. Шкала тревоги Бека — это скрининговый инструмент. Для постановки диагноза и назначения лечения обратитесь к квалифицированному специалисту (психологу, психотерапевту, психиатру).</p>
  </div>
</div>
`))

func (m *Module) RenderResults(res testmod.Result) (template.HTML, error) {
	r, ok := res.(*Result)
	if !ok {
		return "", fmt.Errorf("beck-anxiety: unexpected result type %T", res)
	}
	color, ok := levelColors[r.Level]
	if !ok {
		color = "#95a5a6"
	}
	data := struct {
		R               *Result
		Color           string
		MarkerPct       float64
		TopSymptoms     []SymptomScore
		Recommendations []string
	}{
		R:               r,
		Color:           color,
		MarkerPct:       float64(r.TotalScore) / float64(MaxScore) * 100,
		TopSymptoms:     TopSymptoms(r.SymptomScores, 5),
		Recommendations: recommendations[r.Level],
	}
	var buf bytes.Buffer
	if err := resultsTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
