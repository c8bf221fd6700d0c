package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// DefaultTTL bounds how long a session stays retrievable.
const DefaultTTL = 30 * 24 * time.Hour

// Store persists sessions and pair comparisons. Implementations must make
// CompleteSession a compare-and-set on status so concurrent submits cannot
// overwrite frozen results.
type Store interface {
	CreateSession(ctx context.Context, testSlug string, opts CreateOpts) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	GetByToken(ctx context.Context, token string) (Session, error)
	SaveAnswers(ctx context.Context, id string, answers map[string]interface{}) (Session, error)
	CompleteSession(ctx context.Context, id string, results []byte) (Session, error)
	SaveNarrative(ctx context.Context, id, text string) error
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, opts ListOpts) ([]Session, error)

	FindPartnerSession(ctx context.Context, testSlug, partnerToken, excludeID string) (Session, error)
	SavePairComparison(ctx context.Context, pc PairComparison) (PairComparison, error)
	GetPairComparison(ctx context.Context, id string) (PairComparison, error)
	GetPairComparisonBySession(ctx context.Context, sessionID string) (PairComparison, error)

	LogActivity(ctx context.Context, sessionID, action string, details map[string]interface{}) error
}

// NewToken returns a 64-char hex token from a CSPRNG. Tokens are the only
// credential for anonymous result access, so they must be unguessable.
func NewToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
