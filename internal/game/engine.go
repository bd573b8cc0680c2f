// apps/go-server/internal/game/engine.go
//
// Core engine for a single number guessing round.
// Responsibilities:
//   - Draw a hidden target uniformly from the difficulty's inclusive range.
//   - Count attempts and compare guesses (too low / too high / correct).
//   - Observe the time limit on every read and move to timed_out once it elapses.
//   - Notify an optional observer of each feedback event (audio cues etc.).
//
// Notes:
//   - Clock and Source are injectable; production uses time.Now and crypto/rand.
//   - Scoring is the caller's job (see Score); the engine only reports the outcome.
package game

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Session holds the state of one round. A Session is not safe for concurrent
// use; callers serialise access (see the play package).
type Session struct {
	difficulty Difficulty
	timeLimit  time.Duration
	target     int
	attempts   int
	state      State
	startedAt  time.Time
	endedAt    time.Time

	now      Clock
	rng      Source
	observer func(Feedback)
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Session) { s.now = c }
}

// WithSource overrides the random source used to draw targets.
func WithSource(src Source) Option {
	return func(s *Session) { s.rng = src }
}

// WithObserver registers a callback invoked for every feedback event.
func WithObserver(fn func(Feedback)) Option {
	return func(s *Session) { s.observer = fn }
}

// NewSession constructs an idle session in StateNotStarted.
func NewSession(opts ...Option) *Session {
	s := &Session{
		state: StateNotStarted,
		now:   time.Now,
		rng:   cryptoSource{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Reset starts a new round: new target, zero attempts, fresh start time.
// Valid from any state.
func (s *Session) Reset(d Difficulty, timeLimit time.Duration) error {
	r, err := RangeFor(d)
	if err != nil {
		return err
	}
	if timeLimit <= 0 {
		return ErrInvalidTimeLimit
	}
	s.difficulty = d
	s.timeLimit = timeLimit
	s.target = s.draw(r)
	s.attempts = 0
	s.state = StateInProgress
	s.startedAt = s.now()
	s.endedAt = time.Time{}
	return nil
}

// Guess applies one guess and returns its feedback.
//
// Rules:
//   - The timeout is checked first; a round past its limit rejects the guess.
//   - Only in_progress rounds accept guesses (ErrNotInProgress otherwise).
//   - Every accepted guess counts as one attempt, in range or not.
func (s *Session) Guess(v int) (Feedback, error) {
	if s.State() != StateInProgress {
		return "", ErrNotInProgress
	}
	s.attempts++

	var fb Feedback
	switch {
	case v == s.target:
		s.state = StateWon
		s.endedAt = s.now()
		fb = FeedbackCorrect
	case v < s.target:
		fb = FeedbackTooLow
	default:
		fb = FeedbackTooHigh
	}
	s.notify(fb)
	return fb, nil
}

// State reports the current state after applying the timeout check.
func (s *Session) State() State {
	if s.state == StateInProgress && s.now().Sub(s.startedAt) >= s.timeLimit {
		s.state = StateTimedOut
		s.endedAt = s.startedAt.Add(s.timeLimit)
		s.notify(FeedbackTimedOut)
	}
	return s.state
}

// Attempts returns the number of guesses made this round.
func (s *Session) Attempts() int { return s.attempts }

// Difficulty returns the active difficulty (empty before the first Reset).
func (s *Session) Difficulty() Difficulty { return s.difficulty }

// TimeLimit returns the active time limit.
func (s *Session) TimeLimit() time.Duration { return s.timeLimit }

// Elapsed returns whole seconds since the round started. The value freezes
// once the round is finished.
func (s *Session) Elapsed() int {
	return int(s.since() / time.Second)
}

// Remaining returns the limit minus the whole elapsed seconds, never negative,
// so Elapsed()+Remaining() equals the limit while the round runs.
func (s *Session) Remaining() int {
	if s.state == StateNotStarted {
		return 0
	}
	return max(0, int(s.timeLimit/time.Second)-s.Elapsed())
}

func (s *Session) since() time.Duration {
	switch {
	case s.state == StateNotStarted:
		return 0
	case !s.endedAt.IsZero():
		return s.endedAt.Sub(s.startedAt)
	default:
		return s.now().Sub(s.startedAt)
	}
}

// Target reveals the hidden number once the round is won.
func (s *Session) Target() (int, bool) {
	if s.state != StateWon {
		return 0, false
	}
	return s.target, true
}

// draw picks uniformly from r, both bounds inclusive (also when Min == Max).
func (s *Session) draw(r Range) int {
	return r.Min + s.rng.IntN(r.Max-r.Min+1)
}

func (s *Session) notify(fb Feedback) {
	if s.observer != nil {
		s.observer(fb)
	}
}

// cryptoSource draws from crypto/rand, like the rest of the server's identifiers.
type cryptoSource struct{}

func (cryptoSource) IntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("game: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
