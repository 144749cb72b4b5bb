// internal/httpserver/routes_auth.go
//
// Accounts, auth middleware and per-user views.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me, /games/mine (require auth)
//
// Guests get an anonymous id cookie; their games are claimed by the account
// on signup/login.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/game2048/internal/auth"
)

// credentials is the request payload for signup/login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleStats)
	s.r.With(s.requireAuth()).Get("/games/mine", s.handleMyGames)
}

// handleSignup creates a new user, sets the auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username_taken")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.login(w, r, auth.User{ID: u.ID, Username: u.Username}) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !s.login(w, r, auth.User{ID: u.ID, Username: u.Username}) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// login signs a token, sets the cookie and claims anonymous games.
func (s *Server) login(w http.ResponseWriter, r *http.Request, u auth.User) bool {
	tok, exp, err := s.auth.Sign(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.auth.SetCookie(w, tok, exp)
	w.Header().Set("X-Auth-Token", tok)
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		s.claimAnonGames(r.Context(), c.Value, u.ID)
	}
	return true
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u, err := s.findUserByID(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          u.ID,
		"gamesPlayed": u.GamesPlayed,
		"bestScore":   u.BestScore,
	})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	rows, err := s.recentGames(r.Context(), currentUser(r).ID, 50)
	if err != nil {
		log.Error().Err(err).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// --------------------------- auth middleware -------------------------------

// ctxUserKey is the context key type for storing auth.User.
type ctxUserKey struct{}

// currentUser returns the authenticated user, or nil for guests.
func currentUser(r *http.Request) *auth.User {
	u, _ := r.Context().Value(ctxUserKey{}).(*auth.User)
	return u
}

// userFromToken resolves a request token to an existing user.
func (s *Server) userFromToken(r *http.Request) (*auth.User, error) {
	tok := s.auth.TokenFromRequest(r)
	if tok == "" {
		return nil, auth.ErrInvalidToken
	}
	u, err := s.auth.Parse(tok)
	if err != nil {
		return nil, err
	}
	// Ensure user still exists
	if _, err := s.findUserByID(r.Context(), u.ID); err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &u, nil
}

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, err := s.userFromToken(r); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects the user into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := s.userFromToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// ------------------------------ owners -------------------------------------

const anonCookieName = "g2048_anon"

// owner identifies the caller: a user, an anonymous cookie id, or both when a
// guest has since logged in.
type owner struct {
	userID string
	anonID string
}

// id is the id new games are recorded under.
func (o owner) id() string {
	if o.userID != "" {
		return o.userID
	}
	return o.anonID
}

// owns reports whether a session recorded under ownerID belongs to the caller.
// Guest games stay playable after login because the anon cookie is kept.
func (o owner) owns(ownerID string) bool {
	return ownerID != "" && (ownerID == o.userID || ownerID == o.anonID)
}

// ownerOf returns the caller. Guests without an anon cookie get one.
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) owner {
	if me := currentUser(r); me != nil {
		o := owner{userID: me.ID}
		if c, err := r.Cookie(anonCookieName); err == nil {
			o.anonID = c.Value
		}
		return o
	}
	return owner{anonID: s.ensureAnonID(w, r)}
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := auth.NewID()
	s.auth.SetLongCookie(w, anonCookieName, id, 180*24*time.Hour)
	// Make the id visible to later handlers in this request.
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

// ------------------------------- users -------------------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	GamesPlayed  int
	BestScore    int
}

// createUser validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = auth.NormalizeUsername(username)
	if err := auth.ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, auth.ErrUsernameTaken
	}
	h, err := auth.HashPassword(pw)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &userRow{ID: auth.NewID(), Username: username, PasswordHash: h, CreatedAt: now.Truncate(time.Second)}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, now.Format(time.RFC3339)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, auth.ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *Server) findUserByUsername(ctx context.Context, username string) (*userRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, best_score
	                      FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (s *Server) findUserByID(ctx context.Context, id string) (*userRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, best_score
	                      FROM users WHERE id=?`, id)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a userRow.
func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.BestScore); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}
