package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/psyvista/psytest/internal/session"
)

// adminSessionView hides tokens and raw answers from the listing; admins
// see lifecycle and contact data, not credentials.
type adminSessionView struct {
	ID            string         `json:"id"`
	TestSlug      string         `json:"test_slug"`
	Status        session.Status `json:"status"`
	UserEmail     string         `json:"user_email,omitempty"`
	UserName      string         `json:"user_name,omitempty"`
	AnsweredCount int            `json:"answered_count"`
	HasNarrative  bool           `json:"has_narrative"`
	CreatedAt     int64          `json:"created_at"`
	CompletedAt   int64          `json:"completed_at,omitempty"`
}

// GET /api/admin/sessions?test=smil&status=completed&limit=50&offset=0
func ListSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := session.ListOpts{
			TestSlug: strings.TrimSpace(r.URL.Query().Get("test")),
			Status:   session.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
			Limit:    parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:   parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		list, err := store.ListSessions(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		out := make([]adminSessionView, 0, len(list))
		for _, s := range list {
			v := adminSessionView{
				ID:            s.ID,
				TestSlug:      s.TestSlug,
				Status:        s.Status,
				UserEmail:     s.UserEmail,
				UserName:      s.UserName,
				AnsweredCount: len(s.Answers),
				HasNarrative:  s.Narrative != "",
				CreatedAt:     s.CreatedAt.Unix(),
			}
			if !s.CompletedAt.IsZero() {
				v.CompletedAt = s.CompletedAt.Unix()
			}
			out = append(out, v)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GET /api/results/{token}/pair — the comparison this session is part of,
// for the partner who finished first and never saw a comparison id.
func GetSessionPairHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		sess, err := store.GetByToken(r.Context(), token)
		if err != nil {
			http.Error(w, "session not found", 404)
			return
		}
		pc, err := store.GetPairComparisonBySession(r.Context(), sess.ID)
		if err != nil {
			http.Error(w, "comparison not found", 404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pc)
	}
}

// GET /api/pair/{comparisonID}
func GetPairComparisonHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "comparisonID")
		pc, err := store.GetPairComparison(r.Context(), id)
		if err != nil {
			http.Error(w, "comparison not found", 404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pc)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
