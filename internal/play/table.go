// apps/go-server/internal/play/table.go
//
// Table is one browser's isolated game state: the current round, the optional
// two-player match and the table's own leaderboard. It performs the caller side
// of the engine contract:
//   - on a win, compute the score from attempts + elapsed seconds,
//   - single mode: save a leaderboard entry,
//   - multi mode: credit the current player and advance the turn,
//   - multi mode timeout: forfeit the turn (zero points) and advance.
//
// All methods take the table lock; a Table may be shared by concurrent requests.

package play

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/apps/go-server/internal/game"
	"github.com/robalobadob/numguess/apps/go-server/internal/leaderboard"
	"github.com/robalobadob/numguess/apps/go-server/internal/metrics"
)

// Mode selects single-player or two-player play.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// DefaultTimeLimit is used when a new game does not name one.
const DefaultTimeLimit = 60 * time.Second

// MaxTimeLimitSeconds is the largest limit that still fits a time.Duration.
const MaxTimeLimitSeconds = math.MaxInt64 / int64(time.Second)

// TimeLimitFromSeconds converts a client-supplied limit. Zero, negative and
// unrepresentable values are rejected, never wrapped.
func TimeLimitFromSeconds(n int) (time.Duration, error) {
	if n <= 0 || int64(n) > MaxTimeLimitSeconds {
		return 0, fmt.Errorf("%w: %d seconds", game.ErrInvalidTimeLimit, n)
	}
	return time.Duration(n) * time.Second, nil
}

var ErrInvalidMode = errors.New("invalid mode")

// ParseMode accepts "single"/"multi" (empty means single).
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeMulti:
		return ModeMulti, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// StartRequest carries the new-game settings chosen in the UI.
type StartRequest struct {
	Difficulty game.Difficulty
	TimeLimit  time.Duration
	Mode       Mode
}

// Options configures a Table. Zero values get production defaults.
type Options struct {
	Board      leaderboard.Board
	Clock      game.Clock
	Source     game.Source
	Logger     *zerolog.Logger
	OnFeedback func(game.Feedback)
}

// Outcome describes the most recently finished round.
type Outcome struct {
	State    game.State         `json:"state"`
	Player   string             `json:"player,omitempty"`
	Attempts int                `json:"attempts"`
	Elapsed  int                `json:"elapsed"`
	Score    int                `json:"score"`
	Target   *int               `json:"target,omitempty"`
	Turn     *game.Turn         `json:"turn,omitempty"`
	Entry    *leaderboard.Entry `json:"entry,omitempty"`
}

// GuessResult is returned for every accepted guess.
type GuessResult struct {
	Feedback game.Feedback `json:"feedback"`
	Attempts int           `json:"attempts"`
	Outcome  *Outcome      `json:"outcome,omitempty"`
	View     View          `json:"view"`
}

// Table owns the state of one player (or one pair of players sharing a screen).
type Table struct {
	mu sync.Mutex

	id      string
	mode    Mode
	session *game.Session
	match   *game.Match
	board   leaderboard.Board
	now     game.Clock
	log     zerolog.Logger

	settled  bool // current round's terminal state already handled
	last     *Outcome
	lastSeen time.Time
}

// New constructs an idle table.
func New(id string, opts Options) *Table {
	t := &Table{
		id:    id,
		mode:  ModeSingle,
		board: opts.Board,
		now:   opts.Clock,
	}
	if t.board == nil {
		t.board = leaderboard.NewMemory()
	}
	if t.now == nil {
		t.now = time.Now
	}
	base := log.Logger
	if opts.Logger != nil {
		base = *opts.Logger
	}
	t.log = base.With().Str("table", id).Logger()

	sessOpts := []game.Option{
		game.WithClock(t.now),
		game.WithObserver(func(fb game.Feedback) {
			if fb != game.FeedbackTimedOut {
				metrics.Guesses.WithLabelValues(string(fb)).Inc()
			}
			if opts.OnFeedback != nil {
				opts.OnFeedback(fb)
			}
		}),
	}
	if opts.Source != nil {
		sessOpts = append(sessOpts, game.WithSource(opts.Source))
	}
	t.session = game.NewSession(sessOpts...)
	t.lastSeen = t.now()
	return t
}

// ID returns the table identifier.
func (t *Table) ID() string { return t.id }

// LastSeen returns the time of the most recent operation.
func (t *Table) LastSeen() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeen
}

// Start begins a new game. Multi mode always starts a fresh match
// (scores zeroed, Player 1, round 1).
func (t *Table) Start(_ context.Context, req StartRequest) (View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.now()

	if req.Mode != ModeSingle && req.Mode != ModeMulti {
		return View{}, fmt.Errorf("%w: %q", ErrInvalidMode, string(req.Mode))
	}
	if err := t.session.Reset(req.Difficulty, req.TimeLimit); err != nil {
		return View{}, err
	}

	t.mode = req.Mode
	t.match = nil
	if req.Mode == ModeMulti {
		t.match = game.NewMatch(t.session)
	}
	t.settled = false
	t.last = nil

	metrics.RoundsStarted.WithLabelValues(string(t.mode), string(req.Difficulty)).Inc()
	t.log.Info().
		Str("mode", string(t.mode)).
		Str("difficulty", string(req.Difficulty)).
		Dur("timeLimit", req.TimeLimit).
		Msg("game started")
	return t.view(), nil
}

// Guess submits one guess to the current round.
func (t *Table) Guess(ctx context.Context, v int) (GuessResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.now()

	if t.observe() {
		return GuessResult{}, fmt.Errorf("time limit reached: %w", game.ErrNotInProgress)
	}
	fb, err := t.session.Guess(v)
	if err != nil {
		return GuessResult{}, err
	}
	res := GuessResult{Feedback: fb, Attempts: t.session.Attempts()}

	if fb == game.FeedbackCorrect {
		out, err := t.settleWin(ctx)
		if err != nil {
			return GuessResult{}, err
		}
		res.Outcome = out
	}
	res.View = t.view()
	return res, nil
}

// View returns the presentation snapshot, running the timeout check first.
func (t *Table) View(_ context.Context) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = t.now()
	t.observe()
	return t.view()
}

// Leaderboard returns the table's top entries.
func (t *Table) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	t.mu.Lock()
	t.lastSeen = t.now()
	t.mu.Unlock()
	return t.board.Top(ctx, leaderboard.Capacity)
}

// Close releases table resources (SQL rows for persistent boards).
func (t *Table) Close(ctx context.Context) error {
	if p, ok := t.board.(interface{ Purge(context.Context) error }); ok {
		return p.Purge(ctx)
	}
	return nil
}

// settleWin scores a won round and routes it to the board or the match.
func (t *Table) settleWin(ctx context.Context) (*Outcome, error) {
	t.settled = true
	d := t.session.Difficulty()
	attempts, elapsed := t.session.Attempts(), t.session.Elapsed()
	score, err := game.Score(attempts, elapsed, d)
	if err != nil {
		return nil, err
	}
	out := &Outcome{
		State:    game.StateWon,
		Attempts: attempts,
		Elapsed:  elapsed,
		Score:    score,
	}
	if target, ok := t.session.Target(); ok {
		out.Target = &target
	}
	metrics.RoundsFinished.WithLabelValues(string(game.StateWon)).Inc()

	if t.mode == ModeMulti && t.match != nil {
		out.Player = t.match.CurrentPlayer()
		turn, err := t.match.RecordWin(score)
		if err != nil {
			return nil, err
		}
		out.Turn = &turn
		t.afterTurn(turn)
	} else {
		e := leaderboard.NewEntry(score, attempts, d, t.now())
		if err := t.board.Save(ctx, e); err != nil {
			return nil, fmt.Errorf("save leaderboard entry: %w", err)
		}
		out.Entry = &e
	}

	t.log.Info().
		Str("player", out.Player).
		Int("attempts", attempts).
		Int("elapsed", elapsed).
		Int("score", score).
		Msg("round won")
	t.last = out
	return out, nil
}

// observe runs the timeout check and settles a timed-out round once.
// Returns true if this call settled a timeout.
func (t *Table) observe() bool {
	if t.session.State() != game.StateTimedOut || t.settled {
		return false
	}
	t.settled = true
	out := &Outcome{
		State:    game.StateTimedOut,
		Attempts: t.session.Attempts(),
		Elapsed:  t.session.Elapsed(),
	}
	metrics.RoundsFinished.WithLabelValues(string(game.StateTimedOut)).Inc()

	if t.mode == ModeMulti && t.match != nil {
		out.Player = t.match.CurrentPlayer()
		turn, err := t.match.RecordTimeout()
		if err != nil {
			t.log.Warn().Err(err).Msg("forfeit turn")
		} else {
			out.Turn = &turn
			t.afterTurn(turn)
		}
	}
	t.log.Info().Str("player", out.Player).Int("attempts", out.Attempts).Msg("round timed out")
	t.last = out
	return true
}

// afterTurn re-arms settlement when the match moved on to a fresh round.
func (t *Table) afterTurn(turn game.Turn) {
	if !turn.MatchEnd {
		t.settled = false
		metrics.RoundsStarted.WithLabelValues(string(t.mode), string(t.session.Difficulty())).Inc()
		return
	}
	res, _ := t.match.Result()
	label := res.Winner
	if res.Draw {
		label = "draw"
	}
	metrics.MatchesFinished.WithLabelValues(label).Inc()
	t.log.Info().Str("result", label).Interface("scores", t.match.Scores()).Msg("match over")
}
