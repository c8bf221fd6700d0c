package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/psyvista/psytest/internal/scoring"
	"github.com/psyvista/psytest/internal/session"
	"github.com/psyvista/psytest/internal/testmod"
)

// sessionView is the public shape of a session: the internal id stays
// server-side, the token is the caller's handle.
type sessionView struct {
	Token          string         `json:"session_token"`
	TestSlug       string         `json:"test_slug"`
	Status         session.Status `json:"status"`
	PartnerToken   string         `json:"partner_token,omitempty"`
	AnsweredCount  int            `json:"answered_count"`
	ExpiresAtUnix  int64          `json:"expires_at"`
	ComparisonID   string         `json:"comparison_id,omitempty"`
}

func viewOf(s session.Session) sessionView {
	return sessionView{
		Token:         s.SessionToken,
		TestSlug:      s.TestSlug,
		Status:        s.Status,
		PartnerToken:  s.PartnerToken,
		AnsweredCount: len(s.Answers),
		ExpiresAtUnix: s.ExpiresAt.Unix(),
	}
}

// POST /api/tests/{slug}/start
// { "email": "...", "name": "...", "gender": "male|female", "age": 30,
//   "pair": true, "partner_token": "..." }
func StartSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		m, ok := testmod.Lookup(slug)
		if !ok {
			http.Error(w, "unknown test", 404)
			return
		}
		var req struct {
			Email        string         `json:"email"`
			Name         string         `json:"name"`
			Gender       scoring.Gender `json:"gender"`
			Age          int            `json:"age"`
			Pair         bool           `json:"pair"`
			PartnerToken string         `json:"partner_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if !req.Gender.Valid() {
			http.Error(w, "unrecognized gender", 400)
			return
		}
		partnerToken := req.PartnerToken
		if (req.Pair || partnerToken != "") && !m.SupportsPairMode() {
			http.Error(w, "test does not support pair mode", 400)
			return
		}
		if req.Pair && partnerToken == "" {
			partnerToken = session.NewToken()
		}
		sess, err := store.CreateSession(r.Context(), slug, session.CreateOpts{
			Email:        req.Email,
			Name:         req.Name,
			Demographics: scoring.Demographics{Gender: req.Gender, Age: req.Age},
			PartnerToken: partnerToken,
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = store.LogActivity(r.Context(), sess.ID, "session_started", map[string]interface{}{"test": slug})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(sess))
	}
}

// POST /api/tests/{slug}/save  { "session_token": "...", "answers": {...} }
func SaveAnswersHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		var req struct {
			SessionToken string                 `json:"session_token"`
			Answers      map[string]interface{} `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess, err := store.GetByToken(r.Context(), req.SessionToken)
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		if sess.TestSlug != slug {
			http.Error(w, "token belongs to a different test", 400)
			return
		}
		// Validate the payload before it touches storage.
		if _, err := scoring.ParseAnswerSet(req.Answers); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		updated, err := store.SaveAnswers(r.Context(), sess.ID, req.Answers)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(updated))
	}
}

// POST /api/tests/{slug}/submit  { "session_token": "..." }
// Runs the scoring pipeline exactly once; the store's compare-and-set
// decides the winner when submits race.
func SubmitHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		m, ok := testmod.Lookup(slug)
		if !ok {
			http.Error(w, "unknown test", 404)
			return
		}
		var req struct {
			SessionToken string `json:"session_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess, err := store.GetByToken(r.Context(), req.SessionToken)
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		if sess.TestSlug != slug {
			http.Error(w, "token belongs to a different test", 400)
			return
		}
		answers, err := scoring.ParseAnswerSet(sess.Answers)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		result, err := m.CalculateResults(answers, sess.Demographics)
		if err != nil {
			http.Error(w, err.Error(), 422)
			return
		}
		buf, err := json.Marshal(result)
		if err != nil {
			http.Error(w, "encode results", 500)
			return
		}
		done, err := store.CompleteSession(r.Context(), sess.ID, buf)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		_ = store.LogActivity(r.Context(), sess.ID, "test_completed", map[string]interface{}{"test": slug})

		view := viewOf(done)
		if done.PartnerToken != "" && m.SupportsPairMode() {
			if id, err := maybeCreatePair(r, store, m, done); err == nil && id != "" {
				view.ComparisonID = id
			} else if err != nil {
				log.Printf("pair comparison for session %s: %v", done.ID, err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view)
	}
}

// maybeCreatePair links this result with the partner's if the partner has
// already finished. The first finisher just leaves its token behind.
func maybeCreatePair(r *http.Request, store session.Store, m testmod.Module, done session.Session) (string, error) {
	partner, err := store.FindPartnerSession(r.Context(), done.TestSlug, done.PartnerToken, done.ID)
	if errors.Is(err, session.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	mine, err := m.ParseResult(done.Results)
	if err != nil {
		return "", err
	}
	theirs, err := m.ParseResult(partner.Results)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(m.ComparePairResults(theirs, mine))
	if err != nil {
		return "", err
	}
	pc, err := store.SavePairComparison(r.Context(), session.PairComparison{
		TestSlug:   done.TestSlug,
		Session1ID: partner.ID,
		Session2ID: done.ID,
		Data:       data,
	})
	if err != nil {
		return "", err
	}
	return pc.ID, nil
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, "session not found", 404)
	case errors.Is(err, session.ErrAlreadyCompleted):
		http.Error(w, "session already completed", 409)
	default:
		http.Error(w, err.Error(), 500)
	}
}
