package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	grade      INTEGER NOT NULL,
	topic      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_users_name ON users(lower(name));

CREATE TABLE IF NOT EXISTS questions (
	id            BIGSERIAL PRIMARY KEY,
	user_id       TEXT NOT NULL REFERENCES users(id),
	question_text TEXT NOT NULL,
	answer_given  TEXT NOT NULL,
	correct       BOOLEAN NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feedback (
	id          BIGSERIAL PRIMARY KEY,
	question_id BIGINT NOT NULL REFERENCES questions(id),
	reflection  TEXT NOT NULL,
	emotion     TEXT NOT NULL,
	confidence  INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS answer_performance (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	topic      TEXT NOT NULL,
	correct    BOOLEAN NOT NULL,
	emotion    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_answer_perf_user ON answer_performance(user_id, id);

CREATE TABLE IF NOT EXISTS session_performance (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	topic      TEXT NOT NULL,
	score_num  BIGINT NOT NULL,
	score_den  BIGINT NOT NULL,
	level      INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS llm_requests (
	id            BIGSERIAL PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	latency_ms    BIGINT NOT NULL,
	success       BOOLEAN NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT ''
);
`

// PostgresStore implements Repository on PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database at url and creates the schema.
func NewPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, name string, grade int, topic string) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, grade, topic) VALUES ($1, $2, $3, $4)`,
		id, name, grade, topic)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) FindUserByName(ctx context.Context, name string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, grade, topic, created_at FROM users
		 WHERE lower(name) = lower($1)
		 ORDER BY created_at DESC LIMIT 1`, name).
		Scan(&u.ID, &u.Name, &u.Grade, &u.Topic, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (s *PostgresStore) LogQuestion(ctx context.Context, userID, text, answerGiven string, correct bool) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO questions (user_id, question_text, answer_given, correct)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, text, answerGiven, correct).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) LogFeedback(ctx context.Context, questionID int64, reflection string, label emotion.Label, confidence int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO feedback (question_id, reflection, emotion, confidence) VALUES ($1, $2, $3, $4)`,
		questionID, reflection, string(label), confidence)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *PostgresStore) LogAnswerPerformance(ctx context.Context, userID, topic string, correct bool, label emotion.Label) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO answer_performance (user_id, topic, correct, emotion) VALUES ($1, $2, $3, $4)`,
		userID, topic, correct, string(label))
	if err != nil {
		return fmt.Errorf("insert answer performance: %w", err)
	}
	return nil
}

func (s *PostgresStore) LogSessionPerformance(ctx context.Context, userID, topic string, score *big.Rat, level int) error {
	num, den, err := scoreParts(score)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO session_performance (user_id, topic, score_num, score_den, level) VALUES ($1, $2, $3, $4, $5)`,
		userID, topic, num, den, level)
	if err != nil {
		return fmt.Errorf("insert session performance: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentPerformance(ctx context.Context, userID string, limit int) ([]PerformanceRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT correct, emotion, topic, created_at FROM answer_performance
		 WHERE user_id = $1 ORDER BY id DESC LIMIT $2`, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query performance: %w", err)
	}
	defer rows.Close()

	var out []PerformanceRecord
	for rows.Next() {
		var r PerformanceRecord
		var label string
		if err := rows.Scan(&r.Correct, &label, &r.Topic, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		r.Emotion = emotion.Label(label)
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RecentSessions(ctx context.Context, userID string, limit int) ([]SessionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT topic, score_num, score_den, level, created_at FROM session_performance
		 WHERE user_id = $1 ORDER BY id DESC LIMIT $2`, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var num, den int64
		if err := rows.Scan(&r.Topic, &num, &den, &r.Level, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.Score = big.NewRat(num, den)
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendLLMRequest(ctx context.Context, d LLMRequestEventData) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO llm_requests (provider, model, purpose, input_tokens, output_tokens,
		 latency_ms, success, error_message, request_body, response_body)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.Provider, d.Model, d.Purpose, d.InputTokens, d.OutputTokens,
		d.LatencyMs, d.Success, d.ErrorMessage, d.RequestBody, d.ResponseBody)
	if err != nil {
		return fmt.Errorf("insert llm request: %w", err)
	}
	return nil
}

const postgresEventColumns = `id, created_at, provider, model, purpose, input_tokens, output_tokens,
	latency_ms, success, error_message, request_body, response_body`

func scanPostgresEvent(row pgx.Row) (*LLMEvent, error) {
	var e LLMEvent
	var ts time.Time
	err := row.Scan(&e.ID, &ts, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		return nil, err
	}
	e.Timestamp = ts.UTC()
	return &e, nil
}

func (s *PostgresStore) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	q := `SELECT ` + postgresEventColumns + ` FROM llm_requests`
	var args []any
	if opts.Purpose != "" {
		args = append(args, opts.Purpose)
		q += fmt.Sprintf(` WHERE purpose = $%d`, len(args))
	}
	q += ` ORDER BY id DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		e, err := scanPostgresEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan llm event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error) {
	e, err := scanPostgresEvent(s.pool.QueryRow(ctx,
		`SELECT `+postgresEventColumns+` FROM llm_requests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get llm event: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT purpose, COUNT(*)::int, COALESCE(SUM(input_tokens), 0)::int, COALESCE(SUM(output_tokens), 0)::int,
		        COALESCE(AVG(latency_ms), 0)::bigint
		 FROM llm_requests GROUP BY purpose ORDER BY COUNT(*) DESC, purpose`)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT model, COUNT(*)::int, COALESCE(SUM(input_tokens), 0)::int, COALESCE(SUM(output_tokens), 0)::int
		 FROM llm_requests GROUP BY model ORDER BY COUNT(*) DESC, model`)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
