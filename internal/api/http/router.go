package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/psyvista/psytest/internal/auth"
	"github.com/psyvista/psytest/internal/narrative"
	"github.com/psyvista/psytest/internal/session"
)

// RouterOpts carries the admin credentials the login route checks against.
type RouterOpts struct {
	AdminUser     string
	AdminPassHash string
}

// NewRouter wires every route. Global middleware (logging, CORS, timeouts)
// is applied by the caller.
func NewRouter(store session.Store, authSvc *auth.AuthService, narSvc *narrative.Service, opts RouterOpts) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", HealthHandler())
	r.Get("/api/tests", ListTestsHandler())
	r.Get("/api/tests/{slug}", GetTestHandler())
	r.Post("/api/tests/{slug}/start", StartSessionHandler(store))
	r.Post("/api/tests/{slug}/save", SaveAnswersHandler(store))
	r.Post("/api/tests/{slug}/submit", SubmitHandler(store))

	r.Get("/api/results/{token}", GetResultsHandler(store))
	r.Get("/api/results/{token}/interpretation", GetInterpretationHandler(store))
	r.Delete("/api/results/{token}", DeleteResultsHandler(store))
	r.Post("/api/results/{token}/narrative", NarrativeHandler(store, narSvc))
	r.Get("/results/{slug}/{token}", RenderResultsHandler(store))

	r.Get("/api/results/{token}/pair", GetSessionPairHandler(store))
	r.Get("/api/pair/{comparisonID}", GetPairComparisonHandler(store))

	r.Post("/auth/login", auth.LoginHandler(authSvc, opts.AdminUser, opts.AdminPassHash))
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Get("/api/admin/sessions", ListSessionsHandler(store))
	})

	return r
}
