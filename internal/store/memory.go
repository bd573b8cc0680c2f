// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the table Store.
// Tables are ephemeral by nature: one per browser, gone when the process exits.
//
// Characteristics:
//   - Stores *play.Table objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Tables never share state; the store only indexes them.
//   - Sweep evicts tables idle for longer than a given duration.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/apps/go-server/internal/metrics"
	"github.com/robalobadob/numguess/apps/go-server/internal/play"
)

var ErrNotFound = errors.New("not found")

// Store defines the lookup interface for tables.
type Store interface {
	// Save adds or replaces a table.
	Save(ctx context.Context, t *play.Table) error

	// Get retrieves a table by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*play.Table, error)

	// Delete removes a table and releases its resources.
	Delete(ctx context.Context, id string) error

	// Sweep evicts tables idle since before now-maxIdle and returns how many went.
	Sweep(ctx context.Context, now time.Time, maxIdle time.Duration) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex           // guards tables map
	tables map[string]*play.Table // keyed by Table.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{tables: make(map[string]*play.Table)}
}

// Save adds or updates the table in the map.
func (m *memory) Save(ctx context.Context, t *play.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.ID()] = t
	metrics.ActiveTables.Set(float64(len(m.tables)))
	return nil
}

// Get looks up a table by ID.
func (m *memory) Get(ctx context.Context, id string) (*play.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tables[id]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

// Delete drops the table and purges whatever its board persisted.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	t, ok := m.tables[id]
	delete(m.tables, id)
	metrics.ActiveTables.Set(float64(len(m.tables)))
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return t.Close(ctx)
}

// Sweep removes idle tables. Table locks are taken outside the store lock, so
// a busy table never stalls lookups of the others.
func (m *memory) Sweep(ctx context.Context, now time.Time, maxIdle time.Duration) int {
	cutoff := now.Add(-maxIdle)

	m.mu.RLock()
	all := make([]*play.Table, 0, len(m.tables))
	for _, t := range m.tables {
		all = append(all, t)
	}
	m.mu.RUnlock()

	var idle []*play.Table
	for _, t := range all {
		if t.LastSeen().Before(cutoff) {
			idle = append(idle, t)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	m.mu.Lock()
	var stale []*play.Table
	for _, t := range idle {
		// Skip tables replaced or deleted since the snapshot.
		if cur, ok := m.tables[t.ID()]; ok && cur == t {
			delete(m.tables, t.ID())
			stale = append(stale, t)
		}
	}
	metrics.ActiveTables.Set(float64(len(m.tables)))
	m.mu.Unlock()

	for _, t := range stale {
		if err := t.Close(ctx); err != nil {
			log.Warn().Err(err).Str("table", t.ID()).Msg("close evicted table")
		}
	}
	return len(stale)
}
