// apps/go-server/internal/leaderboard/sqlite.go
//
// SQL-backed Board, one row set per table ID.
// Ranking mirrors Memory: ORDER BY score DESC, id ASC (insertion order breaks ties),
// and every Save prunes rows beyond Capacity inside the same transaction.
//
// The schema lives in assets/sql and is applied by the server's migrate step.

package leaderboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robalobadob/numguess/apps/go-server/internal/game"
)

// SQL stores one table's leaderboard in the leaderboard_entries table.
type SQL struct {
	db      *sql.DB
	tableID string
}

// NewSQL returns a Board scoped to tableID.
func NewSQL(db *sql.DB, tableID string) *SQL {
	return &SQL{db: db, tableID: tableID}
}

// Save inserts e and deletes whatever falls outside the top Capacity.
func (s *SQL) Save(ctx context.Context, e Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO leaderboard_entries (table_id, score, attempts, difficulty, recorded_at)
        VALUES (?, ?, ?, ?, ?)`,
		s.tableID, e.Score, e.Attempts, string(e.Difficulty), e.Timestamp,
	); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
        DELETE FROM leaderboard_entries
        WHERE table_id = ?
          AND id NOT IN (
            SELECT id FROM leaderboard_entries
            WHERE table_id = ?
            ORDER BY score DESC, id ASC
            LIMIT ?)`,
		s.tableID, s.tableID, Capacity,
	); err != nil {
		return fmt.Errorf("prune entries: %w", err)
	}
	return tx.Commit()
}

// Top reads up to n entries, best first.
func (s *SQL) Top(ctx context.Context, n int) ([]Entry, error) {
	n = clampLimit(n)
	rows, err := s.db.QueryContext(ctx, `
        SELECT score, attempts, difficulty, recorded_at
        FROM leaderboard_entries
        WHERE table_id = ?
        ORDER BY score DESC, id ASC
        LIMIT ?`, s.tableID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		var d string
		if err := rows.Scan(&e.Score, &e.Attempts, &d, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Difficulty = game.Difficulty(d)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Purge removes every row for the table. Called when the table is evicted.
func (s *SQL) Purge(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM leaderboard_entries WHERE table_id = ?`, s.tableID)
	return err
}
