// Package store persists learners, answers, reflections, performance rows
// and LLM request events. SQLite is the default backend; PostgreSQL is used
// when the DSN is a postgres URL.
package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/mathmood/internal/emotion"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// User is a learner profile.
type User struct {
	ID        string
	Name      string
	Grade     int
	Topic     string
	CreatedAt time.Time
}

// PerformanceRecord is one per-question performance row.
type PerformanceRecord struct {
	Correct   bool
	Emotion   emotion.Label
	Topic     string
	CreatedAt time.Time
}

// SessionRecord is the terminal performance row written when a session
// completes.
type SessionRecord struct {
	Topic     string
	Score     *big.Rat
	Level     int
	CreatedAt time.Time
}

// QueryOpts filters LLM event listings.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match when set
}

// LLMRequestEventData captures a single LLM request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// UserRepo manages learner profiles.
type UserRepo interface {
	CreateUser(ctx context.Context, name string, grade int, topic string) (string, error)

	// FindUserByName returns the most recently created user with the given
	// name (case-insensitive), or ErrNotFound.
	FindUserByName(ctx context.Context, name string) (*User, error)
}

// QuizRepo records the quiz history.
type QuizRepo interface {
	LogQuestion(ctx context.Context, userID, text, answerGiven string, correct bool) (int64, error)
	LogFeedback(ctx context.Context, questionID int64, reflection string, label emotion.Label, confidence int) error
	LogAnswerPerformance(ctx context.Context, userID, topic string, correct bool, label emotion.Label) error
	LogSessionPerformance(ctx context.Context, userID, topic string, score *big.Rat, level int) error

	// RecentPerformance returns up to limit per-question rows, most recent
	// first.
	RecentPerformance(ctx context.Context, userID string, limit int) ([]PerformanceRecord, error)

	// RecentSessions returns up to limit session rows, most recent first.
	RecentSessions(ctx context.Context, userID string, limit int) ([]SessionRecord, error)
}

// EventRepo stores and aggregates LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns ErrNotFound for an unknown id.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// Repository is the full persistence surface.
type Repository interface {
	UserRepo
	QuizRepo
	EventRepo

	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend selected by dsn. postgres:// and
// postgresql:// URLs use PostgreSQL; anything else is a SQLite path or DSN.
func Open(ctx context.Context, dsn string) (Repository, error) {
	if IsPostgresDSN(dsn) {
		return NewPostgres(ctx, dsn)
	}
	return NewSQLite(ctx, dsn)
}

// IsPostgresDSN reports whether dsn selects the PostgreSQL backend.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// DefaultDBPath resolves the database location in priority order:
// 1. MATHMOOD_DB environment variable
// 2. $XDG_DATA_HOME/mathmood/mathmood.db
// 3. ~/.local/share/mathmood/mathmood.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MATHMOOD_DB"); p != "" {
		if IsPostgresDSN(p) {
			return p, nil
		}
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mathmood", "mathmood.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func scoreParts(score *big.Rat) (int64, int64, error) {
	if score == nil {
		return 0, 0, fmt.Errorf("score is required")
	}
	if !score.Num().IsInt64() || !score.Denom().IsInt64() {
		return 0, 0, fmt.Errorf("score %s out of range", score.RatString())
	}
	return score.Num().Int64(), score.Denom().Int64(), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	return limit
}
