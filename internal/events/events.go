// Package events publishes session lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/abhisek/mathmood/internal/logger"
)

// SubjectSessionCompleted is the NATS subject for finished quiz sessions.
const SubjectSessionCompleted = "mathmood.session.completed"

// SessionCompleted is emitted once a session summary has been persisted.
type SessionCompleted struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Grade           int       `json:"grade"`
	Topic           string    `json:"topic"`
	Score           string    `json:"score"`
	Correct         int       `json:"correct"`
	Target          int       `json:"target"`
	Level           int       `json:"level"`
	DominantEmotion string    `json:"dominant_emotion"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Publisher emits domain events. Publishing is best effort.
type Publisher interface {
	SessionCompleted(ctx context.Context, ev SessionCompleted) error
	Close()
}

// conn is the subset of *nats.Conn the client needs.
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Client publishes events over a NATS connection.
type Client struct {
	conn conn
	log  *logger.Logger
}

// NewClient connects to url. Connection failures are retried in the
// background, so the first publishes may be buffered.
func NewClient(url, token string, log *logger.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("mathmood"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Client{conn: nc, log: log}, nil
}

func (c *Client) SessionCompleted(ctx context.Context, ev SessionCompleted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.publish(SubjectSessionCompleted, ev)
}

func (c *Client) publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := c.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	c.log.Debug("event published", "subject", subject, "bytes", len(payload))
	return nil
}

func (c *Client) Close() {
	c.conn.Close()
}

// New returns a NATS client when url is set and a no-op publisher otherwise.
func New(url, token string, log *logger.Logger) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	return NewClient(url, token, log)
}

// Nop discards every event.
type Nop struct{}

func (Nop) SessionCompleted(context.Context, SessionCompleted) error { return nil }
func (Nop) Close()                                                   {}

// Recorder keeps events in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []SessionCompleted
}

func (r *Recorder) SessionCompleted(_ context.Context, ev SessionCompleted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() {}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []SessionCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SessionCompleted, len(r.events))
	copy(out, r.events)
	return out
}
