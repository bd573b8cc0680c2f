// apps/go-server/main.go
//
// Entry point for the number guessing server.
// Responsibilities:
//   - Load configuration (.env + environment) and set up zerolog.
//   - Open the SQLite leaderboard database when LEADERBOARD_STORE=sqlite.
//   - Build the table store and HTTP server, and evict idle tables periodically.

package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/apps/go-server/internal/config"
	"github.com/robalobadob/numguess/apps/go-server/internal/httpserver"
	"github.com/robalobadob/numguess/apps/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	var db *sql.DB
	if cfg.LeaderboardStore == "sqlite" {
		db, err = openDB(cfg.LeaderboardDSN)
		if err != nil {
			log.Fatal().Err(err).Str("dsn", cfg.LeaderboardDSN).Msg("open database")
		}
		defer db.Close()
		if err := migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tables := store.NewMemoryStore()
	go sweep(ctx, tables, cfg.TableIdleTTL)

	srv := httpserver.New(tables, httpserver.Options{
		ClientOrigin:  cfg.ClientOrigin,
		SessionSecret: cfg.SessionSecret,
		CookieName:    cfg.CookieName,
		Production:    cfg.Production,
		DB:            db,
	})

	log.Info().
		Str("port", cfg.Port).
		Str("leaderboard", cfg.LeaderboardStore).
		Dur("tableIdleTTL", cfg.TableIdleTTL).
		Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// sweep evicts idle tables until ctx is cancelled.
func sweep(ctx context.Context, st store.Store, maxIdle time.Duration) {
	interval := maxIdle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			if n := st.Sweep(ctx, now, maxIdle); n > 0 {
				log.Info().Int("evicted", n).Msg("idle tables swept")
			}
		}
	}
}
