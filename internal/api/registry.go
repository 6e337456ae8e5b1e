package api

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/mathmood/internal/logger"
	"github.com/abhisek/mathmood/internal/session"
)

// entry guards one session. Handlers hold mu for the whole request.
type entry struct {
	mu       sync.Mutex
	state    *session.State
	lastSeen time.Time
	removed  bool // set by Sweep under mu
}

// Registry holds live sessions keyed by session ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry), now: time.Now}
}

// Add registers st under its ID.
func (r *Registry) Add(st *session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[st.ID] = &entry{state: st, lastSeen: r.now()}
}

// With runs fn with the session locked.
func (r *Registry) With(id string, fn func(st *session.State) error) error {
	e, ok := r.lookup(id)
	if !ok {
		return session.ErrSessionNotFound
	}
	return r.run(e, fn)
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	return e, ok
}

// run locks e and calls fn. Sweep may have dropped e between lookup and
// lock; such an entry is gone and fn never sees it.
func (r *Registry) run(e *entry, fn func(st *session.State) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return session.ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return fn(e.state)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many went.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue // in use
		}
		if e.lastSeen.Before(cutoff) {
			e.removed = true
			delete(r.sessions, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// StartSweeper runs Sweep every interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval, ttl time.Duration, log *logger.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(ttl); n > 0 {
					log.Info("swept idle sessions", "count", n, "remaining", r.Len())
				}
			}
		}
	}()
}
