// apps/go-server/internal/leaderboard/leaderboard.go
//
// Ranked high-score list for one table.
// Characteristics:
//   - Entries are kept sorted by score, highest first; ties keep insertion order.
//   - Only the top Capacity (10) entries survive a Save.
//   - Top never mutates the board and returns an empty slice when nothing is saved.
//
// Two implementations: Memory (default, lost on restart) and SQL (see sqlite.go).

package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/numguess/apps/go-server/internal/game"
)

// Capacity is the number of entries a board retains.
const Capacity = 10

// TimestampLayout formats Entry.Timestamp for display.
const TimestampLayout = "2006-01-02 15:04"

// Entry is one won round on the board.
type Entry struct {
	Score      int             `json:"score"`
	Attempts   int             `json:"attempts"`
	Timestamp  string          `json:"timestamp"`
	Difficulty game.Difficulty `json:"difficulty"`
}

// NewEntry builds an entry stamped with at, formatted for display.
func NewEntry(score, attempts int, d game.Difficulty, at time.Time) Entry {
	return Entry{
		Score:      score,
		Attempts:   attempts,
		Timestamp:  at.Format(TimestampLayout),
		Difficulty: d,
	}
}

// Board is the persistence interface for a single table's leaderboard.
type Board interface {
	// Save inserts e and trims the board to Capacity.
	Save(ctx context.Context, e Entry) error

	// Top returns up to n entries, best first. n <= 0 or n > Capacity means Capacity.
	Top(ctx context.Context, n int) ([]Entry, error)
}

// Memory is a slice-backed Board.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemory constructs an empty in-memory board.
func NewMemory() *Memory {
	return &Memory{entries: make([]Entry, 0, Capacity+1)}
}

// Save appends, re-sorts (stable, score descending) and truncates.
func (m *Memory) Save(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].Score > m.entries[j].Score
	})
	if len(m.entries) > Capacity {
		m.entries = m.entries[:Capacity]
	}
	return nil
}

// Top returns a copy of the best n entries.
func (m *Memory) Top(_ context.Context, n int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n = clampLimit(n)
	if n > len(m.entries) {
		n = len(m.entries)
	}
	out := make([]Entry, n)
	copy(out, m.entries[:n])
	return out, nil
}

func clampLimit(n int) int {
	if n <= 0 || n > Capacity {
		return Capacity
	}
	return n
}
