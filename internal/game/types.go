// apps/go-server/internal/game/types.go
//
// Core type definitions for the number guessing engine.
// Defines:
//   - State: lifecycle of a single round (not_started → in_progress → won/timed_out).
//   - Feedback: per-guess evaluation emitted to observers (too low/too high/correct).
//   - Range: inclusive bounds of the hidden number for a difficulty.
//   - Sentinel errors shared by the engine and the match coordinator.

package game

import (
	"errors"
	"time"
)

// State represents the lifecycle position of a round.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateTimedOut   State = "timed_out"
)

// Finished reports whether s is terminal (won or timed out).
func (s State) Finished() bool {
	return s == StateWon || s == StateTimedOut
}

// Feedback is the evaluation result of a guess, or a timeout notice.
type Feedback string

const (
	FeedbackTooLow   Feedback = "guess too low"
	FeedbackTooHigh  Feedback = "guess too high"
	FeedbackCorrect  Feedback = "correct"
	FeedbackTimedOut Feedback = "timed out"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within r (both ends inclusive).
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Clock returns the current time. Sessions use it for every elapsed-time check.
type Clock func() time.Time

// Source draws uniformly distributed integers in [0, n).
type Source interface {
	IntN(n int) int
}

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidTimeLimit  = errors.New("time limit must be positive")
	ErrNotInProgress     = errors.New("round not in progress")
	ErrMatchOver         = errors.New("match is over")
)
