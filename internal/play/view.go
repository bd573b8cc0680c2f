package play

import (
	"time"

	"github.com/robalobadob/numguess/apps/go-server/internal/game"
)

// View is everything the presentation layer renders after an operation.
// The target is only present once the round is won.
type View struct {
	TableID     string          `json:"tableId"`
	Mode        Mode            `json:"mode"`
	State       game.State      `json:"state"`
	Difficulty  game.Difficulty `json:"difficulty,omitempty"`
	Range       *game.Range     `json:"range,omitempty"`
	TimeLimit   int             `json:"timeLimit"`
	Attempts    int             `json:"attempts"`
	Elapsed     int             `json:"elapsed"`
	Remaining   int             `json:"remaining"`
	GameOver    bool            `json:"gameOver"`
	Won         bool            `json:"won"`
	TimedOut    bool            `json:"timedOut"`
	Target      *int            `json:"target,omitempty"`
	Multiplayer *MatchView      `json:"multiplayer,omitempty"`
	Last        *Outcome        `json:"last,omitempty"`
}

// MatchView is the two-player scoreboard.
type MatchView struct {
	CurrentPlayer string         `json:"currentPlayer"`
	Round         int            `json:"round"`
	TotalRounds   int            `json:"totalRounds"`
	Scores        map[string]int `json:"scores"`
	Over          bool           `json:"over"`
	Result        *game.Result   `json:"result,omitempty"`
}

// view builds the snapshot; callers hold t.mu and have already observed.
func (t *Table) view() View {
	s := t.session
	st := s.State()
	v := View{
		TableID:    t.id,
		Mode:       t.mode,
		State:      st,
		Difficulty: s.Difficulty(),
		TimeLimit:  int(s.TimeLimit() / time.Second),
		Attempts:   s.Attempts(),
		Elapsed:    s.Elapsed(),
		Remaining:  s.Remaining(),
		GameOver:   st.Finished(),
		Won:        st == game.StateWon,
		TimedOut:   st == game.StateTimedOut,
		Last:       t.last,
	}
	if r, err := game.RangeFor(s.Difficulty()); err == nil {
		v.Range = &r
	}
	if target, ok := s.Target(); ok {
		v.Target = &target
	}
	if m := t.match; t.mode == ModeMulti && m != nil {
		mv := &MatchView{
			CurrentPlayer: m.CurrentPlayer(),
			Round:         min(m.Round(), m.TotalRounds()),
			TotalRounds:   m.TotalRounds(),
			Scores:        m.Scores(),
			Over:          m.Over(),
		}
		if res, over := m.Result(); over {
			mv.Result = &res
		}
		v.Multiplayer = mv
	}
	return v
}
