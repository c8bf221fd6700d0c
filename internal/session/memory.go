package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/psyvista/psytest/internal/scoring"
)

// MemoryStore is an in-memory Store for tests and single-process demos.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
	byToken  map[string]string
	pairs    map[string]*PairComparison
	activity []activityEntry

	now func() time.Time
}

type activityEntry struct {
	SessionID string
	Action    string
	Details   map[string]interface{}
	At        time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: map[string]*Session{},
		byToken:  map[string]string{},
		pairs:    map[string]*PairComparison{},
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateSession(ctx context.Context, testSlug string, opts CreateOpts) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := &Session{
		ID:           uuid.NewString(),
		TestSlug:     testSlug,
		SessionToken: NewToken(),
		PartnerToken: opts.PartnerToken,
		UserEmail:    opts.Email,
		UserName:     opts.Name,
		Demographics: opts.Demographics,
		Answers:      map[string]interface{}{},
		Status:       StatusInProgress,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	s.byToken[sess.SessionToken] = sess.ID
	return *sess, nil
}

// live filters out tombstoned and expired sessions.
func (s *MemoryStore) live(sess *Session) bool {
	return sess != nil && sess.Status != StatusDeleted && s.now().Before(sess.ExpiresAt)
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.sessions[id]
	if !s.live(sess) {
		return Session{}, ErrNotFound
	}
	return *sess, nil
}

func (s *MemoryStore) GetByToken(ctx context.Context, token string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.sessions[s.byToken[token]]
	if !s.live(sess) {
		return Session{}, ErrNotFound
	}
	return *sess, nil
}

func (s *MemoryStore) SaveAnswers(ctx context.Context, id string, answers map[string]interface{}) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	if !s.live(sess) {
		return Session{}, ErrNotFound
	}
	if sess.Status == StatusCompleted {
		return Session{}, ErrAlreadyCompleted
	}
	// Each save replaces the whole snapshot, last write wins.
	cp := make(map[string]interface{}, len(answers))
	for k, v := range answers {
		cp[k] = v
	}
	sess.Answers = cp
	return *sess, nil
}

func (s *MemoryStore) CompleteSession(ctx context.Context, id string, results []byte) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	if !s.live(sess) {
		return Session{}, ErrNotFound
	}
	if sess.Status != StatusInProgress {
		return Session{}, ErrAlreadyCompleted
	}
	sess.Status = StatusCompleted
	sess.Results = append([]byte(nil), results...)
	sess.CompletedAt = s.now()
	return *sess, nil
}

func (s *MemoryStore) SaveNarrative(ctx context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	if !s.live(sess) {
		return ErrNotFound
	}
	sess.Narrative = text
	return nil
}

// DeleteSession scrubs PII and payload but keeps the row as a tombstone so
// the id and tokens cannot come back to life.
func (s *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	if sess == nil || sess.Status == StatusDeleted {
		return ErrNotFound
	}
	sess.Status = StatusDeleted
	sess.UserEmail = ""
	sess.UserName = ""
	sess.Demographics = scoring.Demographics{}
	sess.Answers = nil
	sess.Results = nil
	sess.Narrative = ""
	return nil
}

func (s *MemoryStore) ListSessions(ctx context.Context, opts ListOpts) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if opts.TestSlug != "" && sess.TestSlug != opts.TestSlug {
			continue
		}
		if opts.Status != "" && sess.Status != opts.Status {
			continue
		}
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Session{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStore) FindPartnerSession(ctx context.Context, testSlug, partnerToken, excludeID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ID == excludeID || !s.live(sess) {
			continue
		}
		if sess.TestSlug == testSlug && sess.PartnerToken == partnerToken && sess.Status == StatusCompleted {
			return *sess, nil
		}
	}
	return Session{}, ErrNotFound
}

func (s *MemoryStore) SavePairComparison(ctx context.Context, pc PairComparison) (PairComparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pc.ID == "" {
		pc.ID = uuid.NewString()
	}
	now := s.now()
	pc.GeneratedAt = now
	pc.ExpiresAt = now.Add(s.ttl)
	cp := pc
	s.pairs[pc.ID] = &cp
	return pc, nil
}

func (s *MemoryStore) GetPairComparisonBySession(ctx context.Context, sessionID string) (PairComparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pc := range s.pairs {
		if (pc.Session1ID == sessionID || pc.Session2ID == sessionID) && s.now().Before(pc.ExpiresAt) {
			return *pc, nil
		}
	}
	return PairComparison{}, ErrNotFound
}

func (s *MemoryStore) GetPairComparison(ctx context.Context, id string) (PairComparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pc := s.pairs[id]
	if pc == nil || !s.now().Before(pc.ExpiresAt) {
		return PairComparison{}, ErrNotFound
	}
	return *pc, nil
}

func (s *MemoryStore) LogActivity(ctx context.Context, sessionID, action string, details map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, activityEntry{SessionID: sessionID, Action: action, Details: details, At: s.now()})
	return nil
}
