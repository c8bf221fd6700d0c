package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/psyvista/psytest/internal/narrative"
	"github.com/psyvista/psytest/internal/session"
	"github.com/psyvista/psytest/internal/testmod"
	"github.com/psyvista/psytest/internal/testmod/smil"
)

func completedSession(w http.ResponseWriter, r *http.Request, store session.Store) (session.Session, testmod.Module, bool) {
	token := chi.URLParam(r, "token")
	sess, err := store.GetByToken(r.Context(), token)
	if err != nil {
		http.Error(w, "session not found", 404)
		return session.Session{}, nil, false
	}
	if !sess.Completed() {
		http.Error(w, session.ErrNotCompleted.Error(), 404)
		return session.Session{}, nil, false
	}
	m, ok := testmod.Lookup(sess.TestSlug)
	if !ok {
		http.Error(w, "unknown test", 500)
		return session.Session{}, nil, false
	}
	return sess, m, true
}

// GET /api/results/{token}
func GetResultsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _, ok := completedSession(w, r, store)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			TestSlug  string          `json:"test_slug"`
			Results   json.RawMessage `json:"results"`
			Narrative string          `json:"narrative,omitempty"`
		}{sess.TestSlug, sess.Results, sess.Narrative})
	}
}

// GET /api/results/{token}/interpretation
func GetInterpretationHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, m, ok := completedSession(w, r, store)
		if !ok {
			return
		}
		res, err := m.ParseResult(sess.Results)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		in, err := m.GenerateInterpretation(res)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(in)
	}
}

var pageTmpl = template.Must(template.New("results-page").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// GET /results/{slug}/{token} — server-rendered results page.
func RenderResultsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		sess, m, ok := completedSession(w, r, store)
		if !ok {
			return
		}
		if sess.TestSlug != slug {
			http.Error(w, "token belongs to a different test", 400)
			return
		}
		res, err := m.ParseResult(sess.Results)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		body, err := m.RenderResults(res)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = pageTmpl.Execute(w, struct {
			Title string
			Body  template.HTML
		}{m.Meta().Name, body})
	}
}

// DELETE /api/results/{token} — erase the person's data, keep the tombstone.
func DeleteResultsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		sess, err := store.GetByToken(r.Context(), token)
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		if err := store.DeleteSession(r.Context(), sess.ID); err != nil {
			writeSessionError(w, err)
			return
		}
		_ = store.LogActivity(r.Context(), sess.ID, "session_deleted", nil)
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/results/{token}/narrative
func NarrativeHandler(store session.Store, svc *narrative.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svc.Enabled() {
			http.Error(w, "narrative generation is not configured", 503)
			return
		}
		sess, m, ok := completedSession(w, r, store)
		if !ok {
			return
		}
		if sess.Narrative != "" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"narrative": sess.Narrative})
			return
		}
		res, err := m.ParseResult(sess.Results)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		prompt, err := promptFor(m, sess, res)
		if err != nil {
			http.Error(w, err.Error(), 422)
			return
		}
		text, err := svc.Generate(r.Context(), prompt)
		if err != nil {
			http.Error(w, "narrative generation failed", 502)
			return
		}
		if err := store.SaveNarrative(r.Context(), sess.ID, text); err != nil {
			writeSessionError(w, err)
			return
		}
		_ = store.LogActivity(r.Context(), sess.ID, "narrative_generated", nil)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"narrative": text})
	}
}

// promptFor builds the richest prompt the result type allows. Profile
// inventories expose their full clinical picture; simpler tests fall back
// to the generated interpretation.
func promptFor(m testmod.Module, sess session.Session, res testmod.Result) (string, error) {
	if r, ok := res.(*smil.Result); ok {
		return narrative.BuildPrompt(narrative.PromptInput{
			TestName:     m.Meta().Name,
			Demographics: sess.Demographics,
			Validity:     r.Validity,
			Scores:       r.CorrectedScores,
			Profile:      r.Profile,
		}), nil
	}
	in, err := m.GenerateInterpretation(res)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Составьте развёрнутую интерпретацию результатов теста «%s» на русском языке.\n\n%s",
		m.Meta().Name, in.Summary), nil
}
