package leaderboard

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/robalobadob/numguess/apps/go-server/assets"
	"github.com/robalobadob/numguess/apps/go-server/internal/game"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	migs, err := assets.Migrations()
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	for _, m := range migs {
		if _, err := db.Exec(m.SQL); err != nil {
			t.Fatalf("apply %s: %v", m.Name, err)
		}
	}
	return db
}

// boards runs fn against every Board implementation.
func boards(t *testing.T, fn func(t *testing.T, b Board)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, NewSQL(openTestDB(t), "table-a")) })
}

var stamp = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func entry(score int) Entry {
	return NewEntry(score, 3, game.Normal, stamp)
}

func scores(t *testing.T, b Board) []int {
	t.Helper()
	top, err := b.Top(context.Background(), Capacity)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	out := make([]int, len(top))
	for i, e := range top {
		out[i] = e.Score
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEmptyBoard(t *testing.T) {
	boards(t, func(t *testing.T, b Board) {
		top, err := b.Top(context.Background(), 10)
		if err != nil {
			t.Fatalf("Top: %v", err)
		}
		if top == nil || len(top) != 0 {
			t.Errorf("Top on empty board = %#v, want empty slice", top)
		}
	})
}

func TestSaveKeepsTopTen(t *testing.T) {
	boards(t, func(t *testing.T, b Board) {
		ctx := context.Background()
		for _, s := range []int{500, 100, 900, 300, 1500, 700, 200, 1100, 800, 400, 1000, 600, 50} {
			if err := b.Save(ctx, entry(s)); err != nil {
				t.Fatalf("Save: %v", err)
			}
		}
		want := []int{1500, 1100, 1000, 900, 800, 700, 600, 500, 400, 300}
		if got := scores(t, b); !equalInts(got, want) {
			t.Errorf("scores = %v, want %v", got, want)
		}
	})
}

func TestSaveLowerThanAllLeavesBoard(t *testing.T) {
	boards(t, func(t *testing.T, b Board) {
		ctx := context.Background()
		for i := 1; i <= Capacity; i++ {
			_ = b.Save(ctx, entry(i*100))
		}
		before := scores(t, b)

		_ = b.Save(ctx, entry(5))
		if got := scores(t, b); !equalInts(got, before) {
			t.Errorf("after low save = %v, want %v", got, before)
		}

		_ = b.Save(ctx, entry(5000))
		got := scores(t, b)
		if len(got) != Capacity || got[0] != 5000 || got[Capacity-1] != 200 {
			t.Errorf("after high save = %v", got)
		}
	})
}

func TestTiesKeepInsertionOrder(t *testing.T) {
	boards(t, func(t *testing.T, b Board) {
		ctx := context.Background()
		for i := 1; i <= 3; i++ {
			_ = b.Save(ctx, NewEntry(700, i, game.Easy, stamp))
		}
		top, _ := b.Top(ctx, 0)
		for i, e := range top {
			if e.Attempts != i+1 {
				t.Fatalf("tie order = %+v", top)
			}
		}
	})
}

func TestTopLimitAndFields(t *testing.T) {
	boards(t, func(t *testing.T, b Board) {
		ctx := context.Background()
		_ = b.Save(ctx, NewEntry(1422, 1, game.Hard, stamp))
		_ = b.Save(ctx, NewEntry(880, 4, game.Easy, stamp))

		top, err := b.Top(ctx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(top) != 1 {
			t.Fatalf("len = %d, want 1", len(top))
		}
		want := Entry{Score: 1422, Attempts: 1, Timestamp: "2024-05-01 09:30", Difficulty: game.Hard}
		if top[0] != want {
			t.Errorf("top[0] = %+v, want %+v", top[0], want)
		}

		// Mutating the returned slice must not affect the board.
		top[0].Score = -1
		if again, _ := b.Top(ctx, 1); again[0].Score != 1422 {
			t.Error("Top returned shared storage")
		}
	})
}

func TestSQLTablesAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	a, b := NewSQL(db, "a"), NewSQL(db, "b")
	_ = a.Save(ctx, entry(100))
	_ = b.Save(ctx, entry(200))
	_ = b.Save(ctx, entry(300))

	if got := scores(t, a); !equalInts(got, []int{100}) {
		t.Errorf("a = %v", got)
	}
	if got := scores(t, b); !equalInts(got, []int{300, 200}) {
		t.Errorf("b = %v", got)
	}

	if err := b.Purge(ctx); err != nil {
		t.Fatal(err)
	}
	if got := scores(t, b); len(got) != 0 {
		t.Errorf("b after purge = %v", got)
	}
	if got := scores(t, a); len(got) != 1 {
		t.Errorf("purge of b touched a: %v", got)
	}
}
