// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the number guessing backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, access log, panic recovery,
//     timeouts, JSON content type, CORS).
//   - Public endpoints: "/", "/health", "/metrics", "/difficulties".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/state,
//     DELETE /game, GET /leaderboard.
//   - Table binding: each browser gets its own table, referenced by a signed cookie.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the table cookie works).
//   - Tables never share state; the store only maps IDs to tables.
//   - Leaderboards are in memory unless a *sql.DB is supplied.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/apps/go-server/internal/game"
	"github.com/robalobadob/numguess/apps/go-server/internal/leaderboard"
	"github.com/robalobadob/numguess/apps/go-server/internal/play"
	"github.com/robalobadob/numguess/apps/go-server/internal/store"
)

// Options configures the server. Zero values get development defaults.
type Options struct {
	ClientOrigin  string
	SessionSecret string
	CookieName    string
	Production    bool
	DB            *sql.DB         // optional; enables SQL-backed leaderboards
	Logger        *zerolog.Logger // defaults to the global zerolog logger
	Clock         game.Clock      // defaults to time.Now
	Source        game.Source     // defaults to crypto/rand
}

// Server bundles router, table store and settings.
type Server struct {
	r     *chi.Mux
	store store.Store
	opts  Options
	log   zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.SessionSecret == "" {
		opts.SessionSecret = "dev_secret_change_me"
	}
	if opts.CookieName == "" {
		opts.CookieName = "numguess_table"
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}

	s := &Server{r: chi.NewRouter(), store: st, opts: opts, log: lg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(s.accessLog)                     // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"numguess-go","endpoints":["/health","/metrics","/difficulties","POST /game/new","POST /game/guess","/game/state","DELETE /game","/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.r.Get("/difficulties", handleDifficulties)

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Post("/game/guess", s.handleGuess)
	s.r.Get("/game/state", s.handleState)
	s.r.Delete("/game", s.handleEndGame)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Difficulty string `json:"difficulty"`
	TimeLimit  *int   `json:"timeLimit"` // seconds; omitted → 60
	Mode       string `json:"mode"`      // "single" | "multi"; omitted → single
}
type newGameRes struct {
	Token string    `json:"token"`
	View  play.View `json:"view"`
}

// handleNewGame starts a round on the caller's table, creating the table
// (and its cookie) on first use.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("bad_json"))
		return
	}
	d, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := play.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit := play.DefaultTimeLimit
	if req.TimeLimit != nil {
		if limit, err = play.TimeLimitFromSeconds(*req.TimeLimit); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	t, err := s.tableFromRequest(r)
	if err != nil {
		t = s.newTable()
		if err := s.store.Save(r.Context(), t); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	tok, err := s.signTableToken(t.ID())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setTableCookie(w, tok)

	v, err := t.Start(r.Context(), play.StartRequest{Difficulty: d, TimeLimit: limit, Mode: mode})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{Token: tok, View: v})
}

// guessReq payload for POST /game/guess.
type guessReq struct {
	Guess *int `json:"guess"`
}

// handleGuess applies a guess to the caller's table.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Guess == nil {
		writeJSON(w, http.StatusBadRequest, errBody("bad_json"))
		return
	}
	t, err := s.tableFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := t.Guess(r.Context(), *req.Guess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleState returns the table snapshot (and applies the timeout check).
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t.View(r.Context()))
}

// handleEndGame drops the caller's table, purges its stored leaderboard rows
// and expires the cookie.
func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), t.ID()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.clearTableCookie(w)
	s.log.Info().Str("table", t.ID()).Msg("table closed")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// lbRes is returned by /leaderboard.
type lbRes struct {
	Top []leaderboard.Entry `json:"top"`
}

// handleLeaderboard returns the caller's top 10. No table yet → empty list.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusOK, lbRes{Top: []leaderboard.Entry{}})
		return
	}
	top, err := t.Leaderboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Top: top})
}

// difficultyInfo describes one selectable difficulty.
type difficultyInfo struct {
	Difficulty game.Difficulty `json:"difficulty"`
	Min        int             `json:"min"`
	Max        int             `json:"max"`
	Multiplier float64         `json:"multiplier"`
}

// handleDifficulties lists the fixed difficulty table for the UI.
func handleDifficulties(w http.ResponseWriter, r *http.Request) {
	out := make([]difficultyInfo, 0, len(game.Difficulties))
	for _, d := range game.Difficulties {
		rg, _ := game.RangeFor(d)
		m, _ := game.Multiplier(d)
		out = append(out, difficultyInfo{Difficulty: d, Min: rg.Min, Max: rg.Max, Multiplier: m})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"difficulties":     out,
		"defaultTimeLimit": int(play.DefaultTimeLimit.Seconds()),
	})
}

// newTable builds an empty table with the configured board backend.
func (s *Server) newTable() *play.Table {
	id := uuid.NewString()
	var board leaderboard.Board
	if s.opts.DB != nil {
		board = leaderboard.NewSQL(s.opts.DB, id)
	}
	return play.New(id, play.Options{
		Board:  board,
		Clock:  s.opts.Clock,
		Source: s.opts.Source,
		Logger: &s.log,
		OnFeedback: func(fb game.Feedback) {
			s.log.Debug().Str("table", id).Str("feedback", string(fb)).Msg("feedback")
		},
	})
}

// ------------------------------ errors -------------------------------------

func errBody(code string) map[string]string { return map[string]string{"error": code} }

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidDifficulty):
		writeJSON(w, http.StatusBadRequest, errBody("invalid_difficulty"))
	case errors.Is(err, game.ErrInvalidTimeLimit):
		writeJSON(w, http.StatusBadRequest, errBody("invalid_time_limit"))
	case errors.Is(err, play.ErrInvalidMode):
		writeJSON(w, http.StatusBadRequest, errBody("invalid_mode"))
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNoTable):
		writeJSON(w, http.StatusNotFound, errBody("no_game"))
	case errors.Is(err, game.ErrNotInProgress):
		writeJSON(w, http.StatusConflict, errBody("not_in_progress"))
	case errors.Is(err, game.ErrMatchOver):
		writeJSON(w, http.StatusConflict, errBody("match_over"))
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Str("reqId", chimw.GetReqID(r.Context())).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errBody("internal"))
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
