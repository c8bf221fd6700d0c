package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/psyvista/psytest/internal/scoring"
	"github.com/psyvista/psytest/internal/testmod"
)

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// GET /api/tests
func ListTestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(testmod.All())
	}
}

// GET /api/tests/{slug} — metadata plus the full question list.
func GetTestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		m, ok := testmod.Lookup(slug)
		if !ok {
			http.Error(w, "unknown test", 404)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Meta      testmod.Meta       `json:"meta"`
			Questions []scoring.Question `json:"questions"`
		}{m.Meta(), m.Questions()})
	}
}
