package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/psyvista/psytest/internal/scoring"
)

// SQLStore persists sessions in test_sessions / pair_comparisons /
// activity_log. Answer maps, demographics and results live in JSON columns;
// timestamps are unix seconds.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	ttl    time.Duration
}

func NewSQLStore(db *sql.DB, driver string, ttl time.Duration) *SQLStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SQLStore{db: db, driver: driver, ttl: ttl}
}

func (s *SQLStore) CreateSession(ctx context.Context, testSlug string, opts CreateOpts) (Session, error) {
	now := time.Now()
	sess := Session{
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
	demoJSON, err := json.Marshal(sess.Demographics)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO test_sessions
		(id,test_slug,session_token,partner_token,user_email,user_name,demographics_json,answers_json,results_json,narrative,status,created_at,expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'{}','','',$8,$9,$10)`,
		sess.ID, sess.TestSlug, sess.SessionToken, sess.PartnerToken,
		sess.UserEmail, sess.UserName, string(demoJSON),
		string(sess.Status), now.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

const sessionCols = `id,test_slug,session_token,partner_token,user_email,user_name,demographics_json,answers_json,results_json,narrative,status,created_at,expires_at,completed_at`

func scanSession(row interface{ Scan(...interface{}) error }) (Session, error) {
	var (
		sess        Session
		demoJSON    string
		answersJSON string
		resultsJSON string
		createdAt   int64
		expiresAt   int64
		completedAt sql.NullInt64
		status      string
	)
	err := row.Scan(&sess.ID, &sess.TestSlug, &sess.SessionToken, &sess.PartnerToken,
		&sess.UserEmail, &sess.UserName, &demoJSON, &answersJSON, &resultsJSON,
		&sess.Narrative, &status, &createdAt, &expiresAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	sess.Status = Status(status)
	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.ExpiresAt = time.Unix(expiresAt, 0)
	if completedAt.Valid {
		sess.CompletedAt = time.Unix(completedAt.Int64, 0)
	}
	if demoJSON != "" {
		if err := json.Unmarshal([]byte(demoJSON), &sess.Demographics); err != nil {
			sess.Demographics = scoring.Demographics{}
		}
	}
	if err := json.Unmarshal([]byte(answersJSON), &sess.Answers); err != nil {
		sess.Answers = map[string]interface{}{}
	}
	if resultsJSON != "" {
		sess.Results = json.RawMessage(resultsJSON)
	}
	return sess, nil
}

func (s *SQLStore) getLive(ctx context.Context, where string, arg interface{}) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM test_sessions WHERE `+where+` AND status != 'deleted' AND expires_at > $2`,
		arg, time.Now().Unix())
	return scanSession(row)
}

func (s *SQLStore) GetByID(ctx context.Context, id string) (Session, error) {
	return s.getLive(ctx, "id=$1", id)
}

func (s *SQLStore) GetByToken(ctx context.Context, token string) (Session, error) {
	return s.getLive(ctx, "session_token=$1", token)
}

// SaveAnswers replaces the whole answer snapshot, last write wins. The
// conditional UPDATE is the only gate: a save racing a submit matches zero
// rows instead of silently landing on a completed session.
func (s *SQLStore) SaveAnswers(ctx context.Context, id string, answers map[string]interface{}) (Session, error) {
	if answers == nil {
		answers = map[string]interface{}{}
	}
	buf, err := json.Marshal(answers)
	if err != nil {
		return Session{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE test_sessions SET answers_json=$1 WHERE id=$2 AND status='partial' AND expires_at > $3`,
		string(buf), id, time.Now().Unix())
	if err != nil {
		return Session{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Nothing updated: completed, deleted, expired or unknown.
		sess, err := s.GetByID(ctx, id)
		if err != nil {
			return Session{}, ErrNotFound
		}
		if sess.Status == StatusCompleted {
			return Session{}, ErrAlreadyCompleted
		}
		return Session{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// CompleteSession freezes results with a single conditional UPDATE, so two
// racing submits cannot both win.
func (s *SQLStore) CompleteSession(ctx context.Context, id string, results []byte) (Session, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE test_sessions SET status='completed', results_json=$1, completed_at=$2
		 WHERE id=$3 AND status='partial' AND expires_at > $4`,
		string(results), time.Now().Unix(), id, time.Now().Unix())
	if err != nil {
		return Session{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost the race or the session is gone. Distinguish for the caller.
		sess, err := s.GetByID(ctx, id)
		if err != nil {
			return Session{}, ErrNotFound
		}
		if sess.Status == StatusCompleted {
			return Session{}, ErrAlreadyCompleted
		}
		return Session{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *SQLStore) SaveNarrative(ctx context.Context, id, text string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE test_sessions SET narrative=$1 WHERE id=$2 AND status != 'deleted'`, text, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession blanks PII and payload in place. The row stays as a
// tombstone so the id and token cannot be reissued or reused.
func (s *SQLStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE test_sessions
		SET status='deleted', user_email='', user_name='', demographics_json='{}',
		    answers_json='{}', results_json='', narrative=''
		WHERE id=$1 AND status != 'deleted'`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListSessions(ctx context.Context, opts ListOpts) ([]Session, error) {
	q := `SELECT ` + sessionCols + ` FROM test_sessions WHERE 1=1`
	args := []interface{}{}
	i := 1
	if opts.TestSlug != "" {
		q += ` AND test_slug=$` + strconv.Itoa(i)
		args = append(args, opts.TestSlug)
		i++
	}
	if opts.Status != "" {
		q += ` AND status=$` + strconv.Itoa(i)
		args = append(args, string(opts.Status))
		i++
	}
	q += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		q += ` LIMIT $` + strconv.Itoa(i)
		args = append(args, opts.Limit)
		i++
	}
	if opts.Offset > 0 {
		q += ` OFFSET $` + strconv.Itoa(i)
		args = append(args, opts.Offset)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLStore) FindPartnerSession(ctx context.Context, testSlug, partnerToken, excludeID string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM test_sessions
		 WHERE test_slug=$1 AND partner_token=$2 AND id != $3 AND status='completed' AND expires_at > $4
		 ORDER BY completed_at DESC LIMIT 1`,
		testSlug, partnerToken, excludeID, time.Now().Unix())
	return scanSession(row)
}

func (s *SQLStore) SavePairComparison(ctx context.Context, pc PairComparison) (PairComparison, error) {
	if pc.ID == "" {
		pc.ID = uuid.NewString()
	}
	now := time.Now()
	pc.GeneratedAt = now
	pc.ExpiresAt = now.Add(s.ttl)
	_, err := s.db.ExecContext(ctx, `INSERT INTO pair_comparisons
		(id,test_slug,session_1_id,session_2_id,comparison_json,generated_at,expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		pc.ID, pc.TestSlug, pc.Session1ID, pc.Session2ID, string(pc.Data),
		now.Unix(), pc.ExpiresAt.Unix())
	if err != nil {
		return PairComparison{}, err
	}
	return pc, nil
}

func (s *SQLStore) GetPairComparison(ctx context.Context, id string) (PairComparison, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,test_slug,session_1_id,session_2_id,comparison_json,generated_at,expires_at
		 FROM pair_comparisons WHERE id=$1 AND expires_at > $2`, id, time.Now().Unix())
	return scanPair(row)
}

func (s *SQLStore) GetPairComparisonBySession(ctx context.Context, sessionID string) (PairComparison, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,test_slug,session_1_id,session_2_id,comparison_json,generated_at,expires_at
		 FROM pair_comparisons WHERE (session_1_id=$1 OR session_2_id=$1) AND expires_at > $2
		 ORDER BY generated_at DESC LIMIT 1`, sessionID, time.Now().Unix())
	return scanPair(row)
}

func scanPair(row interface{ Scan(...interface{}) error }) (PairComparison, error) {
	var (
		pc          PairComparison
		dataJSON    string
		generatedAt int64
		expiresAt   int64
	)
	if err := row.Scan(&pc.ID, &pc.TestSlug, &pc.Session1ID, &pc.Session2ID, &dataJSON, &generatedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PairComparison{}, ErrNotFound
		}
		return PairComparison{}, err
	}
	pc.GeneratedAt = time.Unix(generatedAt, 0)
	pc.ExpiresAt = time.Unix(expiresAt, 0)
	if dataJSON != "" {
		pc.Data = json.RawMessage(dataJSON)
	}
	return pc, nil
}

func (s *SQLStore) LogActivity(ctx context.Context, sessionID, action string, details map[string]interface{}) error {
	buf, _ := json.Marshal(details)
	_, err := s.db.ExecContext(ctx, `INSERT INTO activity_log (session_id,action,details_json,created_at)
		VALUES ($1,$2,$3,$4)`, sessionID, action, string(buf), time.Now().Unix())
	return err
}
