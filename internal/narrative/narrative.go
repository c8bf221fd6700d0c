// Package narrative turns completed results into a long-form written
// interpretation via an OpenRouter-compatible chat-completions API.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/psyvista/psytest/internal/scoring"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("narrative: service disabled, no API key")

const systemPrompt = "Вы - опытный клинический психолог, специалист по психодиагностике. " +
	"Вы составляете профессиональные, этически выверенные интерпретации " +
	"результатов психологического тестирования. Вы не ставите диагнозы, " +
	"а даёте информацию для размышления и рекомендации."

const fallbackDisclaimer = "\n\n---\n\n**Важно:** Данная интерпретация носит исключительно ознакомительный характер " +
	"и не является диагнозом или заменой профессиональной консультации. " +
	"Для получения квалифицированной помощи обратитесь к специалисту."

type Service struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewService(baseURL, apiKey, model string) *Service {
	return &Service{
		client:  &http.Client{Timeout: 90 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

func (s *Service) Enabled() bool { return s.apiKey != "" }

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt and returns the cleaned interpretation text.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:      0.7,
		MaxTokens:        2000,
		TopP:             1,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("HTTP-Referer", "https://psyvista.ru")
	req.Header.Set("X-Title", "PsyVista Platform")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("narrative: request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("narrative: upstream status %d: %s", resp.StatusCode, raw)
	}
	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("narrative: decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("narrative: empty response")
	}
	return cleanResponse(cr.Choices[0].Message.Content), nil
}

var (
	fenceOpen  = regexp.MustCompile("^```[\\w]*\n")
	fenceClose = regexp.MustCompile("\n```$")
)

// cleanResponse strips stray code fences and guarantees a disclaimer.
func cleanResponse(text string) string {
	out := strings.TrimSpace(text)
	out = fenceOpen.ReplaceAllString(out, "")
	out = fenceClose.ReplaceAllString(out, "")
	if !strings.Contains(out, "ознакомительный характер") {
		out += fallbackDisclaimer
	}
	return out
}

// PromptInput carries everything the clinical prompt needs.
type PromptInput struct {
	TestName     string
	Demographics scoring.Demographics
	Validity     scoring.Validity
	Scores       scoring.ScaleScores
	Profile      scoring.Profile
}

// BuildPrompt renders the Russian prompt: demographics, validity block,
// per-scale T-scores with levels, profile type, then the instruction and
// ethics sections.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Вы - опытный клинический психолог, специалист по психодиагностике. ")
	b.WriteString("Ваша задача - составить профессиональную, этически выверенную интерпретацию результатов психологического тестирования.\n\n")
	fmt.Fprintf(&b, "## Тест\n%s\n\n## Данные клиента", in.TestName)
	if in.Demographics.Age > 0 || in.Demographics.Gender != scoring.GenderUnspecified {
		age := "не указан"
		if in.Demographics.Age > 0 {
			age = fmt.Sprintf("%d", in.Demographics.Age)
		}
		gender := "не указан"
		if in.Demographics.Gender != scoring.GenderUnspecified {
			gender = string(in.Demographics.Gender)
		}
		fmt.Fprintf(&b, "\n- Возраст: %s\n- Пол: %s", age, gender)
	}

	b.WriteString("\n\n## Показатели достоверности\n")
	fmt.Fprintf(&b, "- L (Ложь): %.1f\n", in.Validity.LScore)
	fmt.Fprintf(&b, "- F (Достоверность): %.1f\n", in.Validity.FScore)
	fmt.Fprintf(&b, "- K (Коррекция): %.1f\n", in.Validity.KScore)
	fmt.Fprintf(&b, "- F-K индекс: %.1f\n", in.Validity.FKIndex)

	b.WriteString("\n\n## Профиль личности (T-баллы)\n")
	for _, code := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		entry, ok := in.Profile.Scales[code]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- Шкала %s (%s): %.1f T-баллов (уровень: %s)\n",
			code, entry.Name, in.Scores[code], entry.Level)
	}

	b.WriteString("\n\n## Тип профиля\n")
	fmt.Fprintf(&b, "- Тип: %s\n", in.Profile.ProfileType)
	fmt.Fprintf(&b, "- Код профиля: %s\n", in.Profile.CodeType)

	b.WriteString("\n\n## Требования к интерпретации\n")
	b.WriteString("1. Начните с оценки достоверности результатов\n")
	b.WriteString("2. Опишите наиболее выраженные шкалы профиля\n")
	b.WriteString("3. Дайте содержательную интерпретацию личностных особенностей\n")
	b.WriteString("4. Укажите на возможные трудности и ресурсы личности\n")
	b.WriteString("5. Добавьте рекомендации (но помните: это не диагноз!)\n")
	b.WriteString("6. Используйте профессиональный, но доступный язык\n")
	b.WriteString("7. Обязательно включите дисклеймер о том, что это не заменяет очную консультацию\n")
	b.WriteString("8. Объём: 800-1500 слов\n")
	b.WriteString("9. Форматирование: используйте заголовки, списки для удобства чтения\n")

	b.WriteString("\n\n## Важные этические принципы\n")
	b.WriteString("- Не ставьте диагнозы\n")
	b.WriteString("- Избегайте категоричных формулировок\n")
	b.WriteString("- Подчёркивайте, что результаты - это не приговор, а информация для размышления\n")
	b.WriteString("- Уважайте достоинство клиента\n")
	b.WriteString("- Напоминайте о возможности обратиться к специалисту\n")

	b.WriteString("\n\nСоставьте развёрнутую интерпретацию на русском языке:\n")
	return b.String()
}
