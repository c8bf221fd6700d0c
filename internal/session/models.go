// Package session owns the test-session lifecycle: creation with opaque
// access tokens, answer snapshots, the one-shot completion transition and
// GDPR erasure with a persistent tombstone.
package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/psyvista/psytest/internal/scoring"
)

type Status string

const (
	// StatusInProgress is the initial state; answers accumulate.
	StatusInProgress Status = "partial"
	// StatusCompleted means results are frozen; no further saves.
	StatusCompleted Status = "completed"
	// StatusDeleted is terminal: PII and payload scrubbed, id kept as a
	// tombstone so the tokens cannot be reused.
	StatusDeleted Status = "deleted"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrAlreadyCompleted = errors.New("session already completed")
	ErrNotCompleted     = errors.New("session has no results yet")
)

// Session is one test-taking run. Answers holds the raw JSON answer map as
// last saved (question id string -> value); the scoring engine parses it at
// submit time. Results is the module Result persisted as JSON.
type Session struct {
	ID           string                 `json:"id"`
	TestSlug     string                 `json:"test_slug"`
	SessionToken string                 `json:"session_token"`
	PartnerToken string                 `json:"partner_token,omitempty"`
	UserEmail    string                 `json:"user_email,omitempty"`
	UserName     string                 `json:"user_name,omitempty"`
	Demographics scoring.Demographics   `json:"demographics"`
	Answers      map[string]interface{} `json:"answers"`
	Results      json.RawMessage        `json:"results,omitempty"`
	Narrative    string                 `json:"narrative,omitempty"`
	Status       Status                 `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	ExpiresAt    time.Time              `json:"expires_at"`
	CompletedAt  time.Time              `json:"completed_at,omitempty"`
}

// Completed reports whether results are available.
func (s Session) Completed() bool { return s.Status == StatusCompleted }

// PairComparison links two completed sessions of the same test.
type PairComparison struct {
	ID          string          `json:"id"`
	TestSlug    string          `json:"test_slug"`
	Session1ID  string          `json:"session_1_id"`
	Session2ID  string          `json:"session_2_id"`
	Data        json.RawMessage `json:"comparison_data,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// CreateOpts carries the optional attributes supplied at session start.
type CreateOpts struct {
	Email        string
	Name         string
	Demographics scoring.Demographics
	PartnerToken string
}

// ListOpts filters the admin session listing.
type ListOpts struct {
	TestSlug string
	Status   Status
	Limit    int
	Offset   int
}
