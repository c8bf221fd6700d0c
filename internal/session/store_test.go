package session

import (
	"context"
	"testing"
	"time"

	"github.com/psyvista/psytest/internal/scoring"
)

func newStore() *MemoryStore { return NewMemoryStore(time.Hour) }

func mustCreate(t *testing.T, s *MemoryStore, slug string, opts CreateOpts) Session {
	t.Helper()
	sess, err := s.CreateSession(context.Background(), slug, opts)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return sess
}

func TestCreateSession(t *testing.T) {
	s := newStore()
	sess := mustCreate(t, s, "smil", CreateOpts{
		Email:        "a@example.com",
		Demographics: scoring.Demographics{Gender: scoring.GenderFemale},
	})
	if sess.ID == "" || len(sess.SessionToken) != 64 {
		t.Fatalf("bad identity: id=%q token=%q", sess.ID, sess.SessionToken)
	}
	if sess.Status != StatusInProgress {
		t.Errorf("status = %s, want partial", sess.Status)
	}

	byTok, err := s.GetByToken(context.Background(), sess.SessionToken)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if byTok.ID != sess.ID || byTok.Demographics.Gender != scoring.GenderFemale {
		t.Errorf("token lookup returned %+v", byTok)
	}
}

func TestTokensAreUnique(t *testing.T) {
	s := newStore()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		sess := mustCreate(t, s, "smil", CreateOpts{})
		if seen[sess.SessionToken] {
			t.Fatal("duplicate session token")
		}
		seen[sess.SessionToken] = true
	}
}

func TestSaveAnswersReplacesSnapshot(t *testing.T) {
	s := newStore()
	sess := mustCreate(t, s, "smil", CreateOpts{})

	if _, err := s.SaveAnswers(context.Background(), sess.ID, map[string]interface{}{"1": true, "2": false}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Each save replaces the whole snapshot, last write wins.
	got, err := s.SaveAnswers(context.Background(), sess.ID, map[string]interface{}{"2": true, "3": "?"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(got.Answers) != 2 {
		t.Fatalf("answers = %v", got.Answers)
	}
	if _, ok := got.Answers["1"]; ok {
		t.Error("old snapshot survived the save")
	}
	if got.Answers["2"] != true {
		t.Error("later save did not overwrite answer 2")
	}
}

func TestCompleteSessionOnce(t *testing.T) {
	s := newStore()
	sess := mustCreate(t, s, "smil", CreateOpts{})

	done, err := s.CompleteSession(context.Background(), sess.ID, []byte(`{"total":1}`))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != StatusCompleted || string(done.Results) != `{"total":1}` {
		t.Errorf("completed = %+v", done)
	}
	if done.CompletedAt.IsZero() {
		t.Error("completed_at not set")
	}

	// Second submit must fail and leave the first results untouched.
	if _, err := s.CompleteSession(context.Background(), sess.ID, []byte(`{"total":2}`)); err != ErrAlreadyCompleted {
		t.Fatalf("second complete err = %v, want ErrAlreadyCompleted", err)
	}
	got, _ := s.GetByID(context.Background(), sess.ID)
	if string(got.Results) != `{"total":1}` {
		t.Errorf("results overwritten: %s", got.Results)
	}

	// Completed sessions reject further answer saves.
	if _, err := s.SaveAnswers(context.Background(), sess.ID, map[string]interface{}{"1": true}); err != ErrAlreadyCompleted {
		t.Errorf("save after complete err = %v", err)
	}
}

func TestDeleteScrubsAndTombstones(t *testing.T) {
	s := newStore()
	sess := mustCreate(t, s, "smil", CreateOpts{Email: "x@example.com", Name: "X"})
	s.SaveAnswers(context.Background(), sess.ID, map[string]interface{}{"1": true})
	s.CompleteSession(context.Background(), sess.ID, []byte(`{}`))

	if err := s.DeleteSession(context.Background(), sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(context.Background(), sess.ID); err != ErrNotFound {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByToken(context.Background(), sess.SessionToken); err != ErrNotFound {
		t.Errorf("token after delete err = %v, want ErrNotFound", err)
	}
	// Second delete hits the tombstone.
	if err := s.DeleteSession(context.Background(), sess.ID); err != ErrNotFound {
		t.Errorf("double delete err = %v", err)
	}

	// The tombstone row must hold no PII or payload.
	tomb := s.sessions[sess.ID]
	if tomb.UserEmail != "" || tomb.UserName != "" || tomb.Answers != nil || tomb.Results != nil {
		t.Errorf("tombstone not scrubbed: %+v", tomb)
	}
}

func TestExpiredSessionHidden(t *testing.T) {
	s := newStore()
	sess := mustCreate(t, s, "smil", CreateOpts{})
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.GetByID(context.Background(), sess.ID); err != ErrNotFound {
		t.Errorf("expired get err = %v, want ErrNotFound", err)
	}
	if _, err := s.CompleteSession(context.Background(), sess.ID, []byte(`{}`)); err != ErrNotFound {
		t.Errorf("expired complete err = %v, want ErrNotFound", err)
	}
}

func TestListSessionsFilters(t *testing.T) {
	s := newStore()
	a := mustCreate(t, s, "smil", CreateOpts{})
	mustCreate(t, s, "beck-anxiety", CreateOpts{})
	s.CompleteSession(context.Background(), a.ID, []byte(`{}`))

	all, err := s.ListSessions(context.Background(), ListOpts{})
	if err != nil || len(all) != 2 {
		t.Fatalf("list all = %d sessions, err %v", len(all), err)
	}
	smil, _ := s.ListSessions(context.Background(), ListOpts{TestSlug: "smil"})
	if len(smil) != 1 || smil[0].ID != a.ID {
		t.Errorf("slug filter = %v", smil)
	}
	done, _ := s.ListSessions(context.Background(), ListOpts{Status: StatusCompleted})
	if len(done) != 1 || done[0].ID != a.ID {
		t.Errorf("status filter = %v", done)
	}
	limited, _ := s.ListSessions(context.Background(), ListOpts{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("limit = %v", limited)
	}
}

func TestFindPartnerSession(t *testing.T) {
	s := newStore()
	tok := NewToken()
	a := mustCreate(t, s, "smil", CreateOpts{PartnerToken: tok})
	b := mustCreate(t, s, "smil", CreateOpts{PartnerToken: tok})

	// Partner not completed yet.
	if _, err := s.FindPartnerSession(context.Background(), "smil", tok, b.ID); err != ErrNotFound {
		t.Fatalf("find before complete err = %v", err)
	}
	s.CompleteSession(context.Background(), a.ID, []byte(`{}`))
	got, err := s.FindPartnerSession(context.Background(), "smil", tok, b.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("partner = %s, want %s", got.ID, a.ID)
	}
	// A session must never match itself.
	if _, err := s.FindPartnerSession(context.Background(), "smil", tok, a.ID); err != ErrNotFound {
		t.Errorf("self match err = %v", err)
	}
}

func TestPairComparisonRoundTrip(t *testing.T) {
	s := newStore()
	pc, err := s.SavePairComparison(context.Background(), PairComparison{
		TestSlug:   "smil",
		Session1ID: "s1",
		Session2ID: "s2",
		Data:       []byte(`{"delta":1}`),
	})
	if err != nil {
		t.Fatalf("save pair: %v", err)
	}
	got, err := s.GetPairComparison(context.Background(), pc.ID)
	if err != nil {
		t.Fatalf("get pair: %v", err)
	}
	if got.TestSlug != "smil" || string(got.Data) != `{"delta":1}` {
		t.Errorf("pair = %+v", got)
	}

	// Both member sessions resolve to the same comparison.
	for _, sid := range []string{"s1", "s2"} {
		bySess, err := s.GetPairComparisonBySession(context.Background(), sid)
		if err != nil || bySess.ID != pc.ID {
			t.Errorf("by session %s: %v %+v", sid, err, bySess)
		}
	}
	if _, err := s.GetPairComparisonBySession(context.Background(), "s3"); err != ErrNotFound {
		t.Errorf("unrelated session err = %v", err)
	}
}
