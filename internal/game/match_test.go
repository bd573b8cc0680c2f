package game

import (
	"errors"
	"testing"
	"time"
)

func newMatch(t *testing.T) (*Match, *Session, *fakeClock) {
	t.Helper()
	clk := newClock()
	s := NewSession(WithClock(clk.Now), WithSource(fixedSource(9)))
	if err := s.Reset(Normal, time.Minute); err != nil {
		t.Fatal(err)
	}
	return NewMatch(s), s, clk
}

func TestMatchTurnOrder(t *testing.T) {
	m, s, _ := newMatch(t)
	if m.CurrentPlayer() != Player1 || m.Round() != 1 {
		t.Fatalf("start: player=%s round=%d", m.CurrentPlayer(), m.Round())
	}

	_, _ = s.Guess(10)
	turn, err := m.RecordWin(1000)
	if err != nil {
		t.Fatal(err)
	}
	if turn.Player != Player1 || turn.Next != Player2 || turn.Round != 1 {
		t.Errorf("turn = %+v", turn)
	}
	if s.State() != StateInProgress || s.Attempts() != 0 {
		t.Errorf("session not reset for Player 2: state=%s attempts=%d", s.State(), s.Attempts())
	}
	if s.Difficulty() != Normal || s.TimeLimit() != time.Minute {
		t.Errorf("reset changed settings: %s %s", s.Difficulty(), s.TimeLimit())
	}

	_, _ = s.Guess(10)
	turn, err = m.RecordWin(900)
	if err != nil {
		t.Fatal(err)
	}
	if m.Round() != 2 || m.CurrentPlayer() != Player1 {
		t.Errorf("after pair: round=%d player=%s", m.Round(), m.CurrentPlayer())
	}
	if turn.Next != Player1 || turn.MatchEnd {
		t.Errorf("turn = %+v", turn)
	}
	if s.State() != StateInProgress {
		t.Errorf("session not reset for round 2: %s", s.State())
	}
	scores := m.Scores()
	if scores[Player1] != 1000 || scores[Player2] != 900 {
		t.Errorf("scores = %v", scores)
	}
	if _, over := m.Result(); over {
		t.Error("match over after one round")
	}
}

func TestMatchWinner(t *testing.T) {
	cases := []struct {
		name   string
		p1, p2 [TotalRounds]int
		want   Result
	}{
		{"player one", [3]int{600, 600, 600}, [3]int{500, 500, 500}, Result{Winner: Player1}},
		{"player two", [3]int{0, 100, 0}, [3]int{0, 0, 101}, Result{Winner: Player2}},
		{"draw", [3]int{700, 0, 800}, [3]int{500, 500, 500}, Result{Draw: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, _, _ := newMatch(t)
			var last Turn
			for r := 0; r < TotalRounds; r++ {
				if _, err := m.RecordWin(c.p1[r]); err != nil {
					t.Fatal(err)
				}
				var err error
				if last, err = m.RecordWin(c.p2[r]); err != nil {
					t.Fatal(err)
				}
			}
			if !last.MatchEnd || last.Next != "" {
				t.Errorf("last turn = %+v", last)
			}
			res, over := m.Result()
			if !over {
				t.Fatal("match not over")
			}
			if res != c.want {
				t.Errorf("result = %+v, want %+v", res, c.want)
			}
			if _, err := m.RecordWin(10); !errors.Is(err, ErrMatchOver) {
				t.Errorf("RecordWin after end err = %v", err)
			}
			if _, err := m.RecordTimeout(); !errors.Is(err, ErrMatchOver) {
				t.Errorf("RecordTimeout after end err = %v", err)
			}
		})
	}
}

func TestMatchFinalTurnLeavesSession(t *testing.T) {
	m, s, _ := newMatch(t)
	for i := 0; i < 2*TotalRounds-1; i++ {
		_, _ = m.RecordWin(1)
	}
	_, _ = s.Guess(10) // target is 10 → won
	if _, err := m.RecordWin(1); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateWon {
		t.Errorf("session was reset after the final turn: %s", s.State())
	}
}

func TestMatchTimeoutForfeits(t *testing.T) {
	m, s, clk := newMatch(t)
	clk.Advance(2 * time.Minute)
	if s.State() != StateTimedOut {
		t.Fatal("expected timeout")
	}
	turn, err := m.RecordTimeout()
	if err != nil {
		t.Fatal(err)
	}
	if turn.Points != 0 || turn.Next != Player2 {
		t.Errorf("turn = %+v", turn)
	}
	if s.State() != StateInProgress {
		t.Errorf("session not reset after forfeit: %s", s.State())
	}
	if m.Scores()[Player1] != 0 {
		t.Errorf("forfeit scored %d", m.Scores()[Player1])
	}
}
