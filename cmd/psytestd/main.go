package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/psyvista/psytest/internal/api/http"
	"github.com/psyvista/psytest/internal/auth"
	"github.com/psyvista/psytest/internal/config"
	"github.com/psyvista/psytest/internal/db"
	"github.com/psyvista/psytest/internal/narrative"
	"github.com/psyvista/psytest/internal/session"

	// Test modules register themselves on import.
	_ "github.com/psyvista/psytest/internal/testmod/beckanxiety"
	_ "github.com/psyvista/psytest/internal/testmod/smil"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := session.NewSQLStore(dbh, cfg.DBDriver, cfg.SessionTTL)

	authSvc := auth.NewAuthService(cfg.JWTSecret)
	narSvc := narrative.NewService(cfg.NarrativeBaseURL, cfg.NarrativeAPIKey, cfg.NarrativeModel)
	if !narSvc.Enabled() {
		log.Printf("narrative generation disabled (no OPENROUTER_API_KEY)")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/", api.NewRouter(store, authSvc, narSvc, api.RouterOpts{
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
	}))

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
