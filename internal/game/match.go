// apps/go-server/internal/game/match.go
//
// Two-player turn sequencing on top of a Session.
// A match is TotalRounds turn pairs: Player 1 plays a round, then Player 2,
// then the round counter advances. Each finished turn adds its score to the
// player's total; once the last pair is done the higher total wins.
//
// A timed-out turn is a forfeit: it advances like a win worth zero points.

package game

const (
	Player1 = "Player 1"
	Player2 = "Player 2"

	TotalRounds = 3
)

// Result is the end-of-match verdict. Winner is empty when Draw is true.
type Result struct {
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw"`
}

// Turn describes what happened when a turn was settled.
type Turn struct {
	Player   string `json:"player"`   // who just played
	Points   int    `json:"points"`   // points awarded for the turn
	Next     string `json:"next"`     // who plays next (empty once over)
	Round    int    `json:"round"`    // round counter after the advance
	MatchEnd bool   `json:"matchEnd"` // true if this turn finished the match
}

// Match tracks the cumulative scoreboard of a two-player game.
type Match struct {
	session *Session
	scores  map[string]int
	current string
	round   int
	total   int
	over    bool
	result  Result
}

// NewMatch starts a match on s with zeroed scores, Player 1 to move, round 1.
// The caller resets s for the first turn.
func NewMatch(s *Session) *Match {
	return &Match{
		session: s,
		scores:  map[string]int{Player1: 0, Player2: 0},
		current: Player1,
		round:   1,
		total:   TotalRounds,
	}
}

// RecordWin credits points to the current player and advances the turn.
func (m *Match) RecordWin(points int) (Turn, error) {
	return m.advance(points)
}

// RecordTimeout forfeits the current turn and advances.
func (m *Match) RecordTimeout() (Turn, error) {
	return m.advance(0)
}

// advance implements the turn rule:
//   - Player 1 done → Player 2, new round target.
//   - Player 2 done → Player 1, round+1; past TotalRounds the match ends,
//     otherwise the next round target is drawn.
func (m *Match) advance(points int) (Turn, error) {
	if m.over {
		return Turn{}, ErrMatchOver
	}
	t := Turn{Player: m.current, Points: points}
	m.scores[m.current] += points

	if m.current == Player1 {
		m.current = Player2
	} else {
		m.current = Player1
		m.round++
		if m.round > m.total {
			m.over = true
			m.result = m.determineWinner()
		}
	}

	t.Round = m.round
	if m.over {
		t.MatchEnd = true
		return t, nil
	}
	t.Next = m.current
	if err := m.session.Reset(m.session.Difficulty(), m.session.TimeLimit()); err != nil {
		return t, err
	}
	return t, nil
}

// determineWinner compares the totals exactly; equal totals are a draw.
func (m *Match) determineWinner() Result {
	p1, p2 := m.scores[Player1], m.scores[Player2]
	switch {
	case p1 > p2:
		return Result{Winner: Player1}
	case p2 > p1:
		return Result{Winner: Player2}
	default:
		return Result{Draw: true}
	}
}

// Result returns the verdict; ok is false while the match is still running.
func (m *Match) Result() (Result, bool) {
	return m.result, m.over
}

// Over reports whether all rounds have been played.
func (m *Match) Over() bool { return m.over }

// CurrentPlayer returns whose turn it is.
func (m *Match) CurrentPlayer() string { return m.current }

// Round returns the current round (1-based; TotalRounds+1 once over).
func (m *Match) Round() int { return m.round }

// TotalRounds returns the number of turn pairs in the match.
func (m *Match) TotalRounds() int { return m.total }

// Scores returns a copy of the cumulative totals.
func (m *Match) Scores() map[string]int {
	out := make(map[string]int, len(m.scores))
	for k, v := range m.scores {
		out[k] = v
	}
	return out
}
