package session

import (
	"time"

	"github.com/abhisek/mathmood/internal/events"
)

func completedEvent(st *State, now time.Time) events.SessionCompleted {
	s := st.Summary
	return events.SessionCompleted{
		SessionID:       st.ID,
		UserID:          st.UserID,
		Name:            st.Name,
		Grade:           st.Grade,
		Topic:           string(st.Topic),
		Score:           s.ScoreString(),
		Correct:         s.Correct,
		Target:          s.Target,
		Level:           s.Level,
		DominantEmotion: string(s.DominantEmotion),
		CompletedAt:     now.UTC(),
	}
}

// Elapsed returns how long the session has been running at now.
func (s *State) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}
