// internal/httpserver/server.go
//
// HTTP server wiring for the 2048 backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts,
//     JSON, CORS, per-client rate limiting).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/move,
//     GET /game/{id}, POST /game/{id}/restart.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Live sessions are held in store.Store; every move runs inside
//     Store.Update so concurrent requests for one game are serialized.
//   - Game history rows in SQLite are best effort: failures are logged and
//     never fail the request.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/game2048/internal/auth"
	"github.com/robalobadob/game2048/internal/config"
	"github.com/robalobadob/game2048/internal/game"
	"github.com/robalobadob/game2048/internal/ratelimit"
	"github.com/robalobadob/game2048/internal/store"
)

// Server bundles router, session store, and DB handle.
type Server struct {
	r       *chi.Mux
	store   store.Store
	db      *sql.DB
	cfg     config.Config
	auth    auth.Config
	limiter *ratelimit.Limiter
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		db:    db,
		cfg:   cfg,
		auth: auth.Config{
			Secret:     []byte(cfg.JWTSecret),
			TTL:        cfg.JWTTTL,
			CookieName: cfg.CookieName,
			Secure:     cfg.Production,
		},
		limiter: ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow),
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS
	s.r.Use(s.limiter.Middleware)            // 429 past the per-client budget

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "game2048",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/move", "GET /game/{id}", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.With(s.requireAuth()).Get("/debug/sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"live": s.store.Len()})
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/move", s.handleMove)
		r.Get("/game/{id}", s.handleState)
		r.Post("/game/{id}/restart", s.handleRestart)
	})

	// Daily Challenge: OPTIONAL AUTH (guests can play; result persisted at game over)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// Limiter exposes the rate limiter so the caller can sweep idle clients.
func (s *Server) Limiter() *ratelimit.Limiter { return s.limiter }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request with status and latency.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// moveReq is the payload for POST /game/move and POST /daily/move.
type moveReq struct {
	GameID    string `json:"gameId"`
	Direction string `json:"direction"`
}

// moveRes is returned by the move endpoints.
type moveRes struct {
	GameID string `json:"gameId"`
	game.Outcome
	Moves int `json:"moves"`
}

// handleNewGame creates a classic session and a history row owned by the
// current user or anonymous id.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	own := s.ownerOf(w, r)
	g := game.NewSession(game.ModeClassic, game.New())
	g.OwnerID = own.id()
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	snap := g.Snapshot()
	s.recordStart(r.Context(), snap, own)
	writeJSON(w, http.StatusOK, snap)
}

// handleMove applies one direction to a classic game.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	d, err := game.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_direction")
		return
	}
	out, snap, err := s.applyMove(r, s.ownerOf(w, r), req.GameID, d, func(g *game.Session) error {
		if g.Mode == game.ModeDaily {
			return errDailyMove
		}
		return nil
	})
	if err != nil {
		writeMoveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveRes{GameID: snap.ID, Outcome: out, Moves: snap.Moves})
}

// applyMove runs d against own's session under its lock, then updates history.
// check, if set, runs after the owner check and can reject the move.
func (s *Server) applyMove(r *http.Request, own owner, id string, d game.Direction, check func(*game.Session) error) (game.Outcome, game.Snapshot, error) {
	var (
		out  game.Outcome
		snap game.Snapshot
	)
	err := s.store.Update(r.Context(), id, func(g *game.Session) error {
		if !own.owns(g.OwnerID) {
			return errNoSession
		}
		if check != nil {
			if err := check(g); err != nil {
				return err
			}
		}
		var err error
		if out, err = g.Move(d); err != nil {
			return err
		}
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		return out, snap, err
	}
	if out.Moved {
		s.recordProgress(r.Context(), snap, own)
		if out.Over {
			s.recordFinish(r.Context(), snap, own)
		}
	}
	return out, snap, nil
}

// handleState returns the current snapshot of one of the caller's games.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	own := s.ownerOf(w, r)
	var snap game.Snapshot
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(g *game.Session) error {
		if !own.owns(g.OwnerID) {
			return errNoSession
		}
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		writeMoveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleRestart re-initializes a classic game in place.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	own := s.ownerOf(w, r)
	var snap game.Snapshot
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(g *game.Session) error {
		if !own.owns(g.OwnerID) {
			return errNoSession
		}
		if g.Mode == game.ModeDaily {
			return errDailyRestart
		}
		g.Restart()
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		writeMoveError(w, err)
		return
	}
	s.recordRestart(r.Context(), snap, own)
	writeJSON(w, http.StatusOK, snap)
}

var (
	errDailyRestart = errors.New("daily games cannot be restarted")
	errDailyMove    = errors.New("daily games move through /daily/move")
	errNoSession    = errors.New("no session")
)

// writeMoveError maps session errors to status codes.
func writeMoveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, errDailyRestart):
		writeError(w, http.StatusConflict, "daily_no_restart")
	case errors.Is(err, errDailyMove):
		writeError(w, http.StatusConflict, "daily_game")
	case errors.Is(err, errNoSession):
		writeError(w, http.StatusConflict, "no_session")
	default:
		log.Error().Err(err).Msg("game update")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// ------------------------------- util --------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
