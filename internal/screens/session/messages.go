package session

import (
	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/reflection"
	sess "github.com/abhisek/mathmood/internal/session"
)

// startedMsg is sent when the engine has resolved the learner and generated
// the first question.
type startedMsg struct {
	State *sess.State
	Err   error
}

// questionMsg is sent when a retried question generation finishes.
type questionMsg struct {
	Question *problemgen.Question
	Err      error
}

// answeredMsg is sent when the answer has been checked and logged.
type answeredMsg struct {
	Result *sess.AnswerResult
	Err    error
}

// reflectedMsg is sent when the reflection has been stored and the next
// question or the summary is ready.
type reflectedMsg struct {
	Result *sess.ReflectionResult
	Err    error
}

// finalizedMsg is sent when a retried finalize finishes.
type finalizedMsg struct {
	Summary *reflection.Summary
	Err     error
}
