// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses the session)
//   - POST /daily/move        → apply a move to today's game
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Every player of a date gets the same spawn sequence (seed = HMAC(salt, date)).
// Each player gets one result per day: it is stored when the game ends.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/game2048/internal/daily"
	"github.com/robalobadob/game2048/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]string // ownerID|date → session ID
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/move", dd.handleMove)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new. Game is nil when Played is true.
type dailyNewRes struct {
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Game   *game.Snapshot `json:"game,omitempty"`
}

// handleNew creates or reuses today's session for the caller.
//   - Result already stored for today → Played=true.
//   - Otherwise reuse the live session or create a seeded one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	own := d.srv.ownerOf(w, r)
	uid := own.id()
	now := d.srv.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("daily already played")
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)

	if id, ok := d.sessions[key]; ok {
		if snap, err := d.srv.store.Get(r.Context(), id); err == nil {
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &snap})
			return
		}
	}

	g := game.NewSession(game.ModeDaily, game.NewSeeded(daily.Seed(now, d.salt)))
	g.Date = date
	g.OwnerID = uid
	g.StartedAt = now
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save daily game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = g.ID

	snap := g.Snapshot()
	d.srv.recordStart(r.Context(), snap, own)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &snap})
}

// pruneLocked forgets sessions from earlier days. Caller holds d.mu.
func (d *dailyServer) pruneLocked(today string) {
	for k := range d.sessions {
		if !strings.HasSuffix(k, "|"+today) {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/move

// handleMove applies a move to one of the caller's daily games. When the move
// ends the game, the result is stored under the game's own date (once per
// player per day), so a game started before midnight UTC still counts.
func (d *dailyServer) handleMove(w http.ResponseWriter, r *http.Request) {
	own := d.srv.ownerOf(w, r)

	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	dir, err := game.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_direction")
		return
	}

	var ownerID string
	out, snap, err := d.srv.applyMove(r, own, req.GameID, dir, func(g *game.Session) error {
		if g.Mode != game.ModeDaily {
			return errNoSession
		}
		ownerID = g.OwnerID
		return nil
	})
	if err != nil {
		writeMoveError(w, err)
		return
	}

	if out.Moved && out.Over {
		res := daily.Result{
			UserID:    ownerID,
			Date:      snap.Date,
			Score:     snap.Score,
			MaxTile:   snap.MaxTile,
			Moves:     snap.Moves,
			ElapsedMs: max(0, int(d.srv.now().Sub(snap.StartedAt).Milliseconds())),
		}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("user", ownerID).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, moveRes{GameID: snap.ID, Outcome: out, Moves: snap.Moves})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	rows, err := d.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
