// internal/httpserver/history.go
//
// Game history in the games table.
// Responsibilities:
//   - One row per session: inserted on start, updated after every move that
//     changed the grid, marked over on game over, reset on restart.
//   - Finishing a game bumps the owning user's games_played / best_score.
//   - Guest games are claimed by the account on signup/login.
//
// Notes:
//   - Updates are scoped to the caller (user_id or anonymous_id).
//   - All writes are best effort: failures are logged, never returned.

package httpserver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/game2048/internal/game"
)

// ownerClause restricts a games UPDATE to rows of the caller. Bind the
// owner's userID then anonID.
const ownerClause = `(user_id=? OR anonymous_id=?)`

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339) }

// recordStart inserts the games row for a new session.
func (s *Server) recordStart(ctx context.Context, snap game.Snapshot, own owner) {
	var userID, anonID any
	if own.userID != "" {
		userID = own.userID
	} else {
		anonID = own.anonID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO games (id, user_id, anonymous_id, mode, status, score, max_tile, moves, started_at)
	                                 VALUES (?,?,?,?,?,?,?,0,?)`,
		snap.ID, userID, anonID, string(snap.Mode), "playing", snap.Score, snap.MaxTile, snap.StartedAt.Format(time.RFC3339))
	if err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("insert game row")
	}
}

// recordProgress stores score and counters after a move that changed the grid.
func (s *Server) recordProgress(ctx context.Context, snap game.Snapshot, own owner) {
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET score=?, max_tile=?, moves=? WHERE id=? AND `+ownerClause,
		snap.Score, snap.MaxTile, snap.Moves, snap.ID, own.userID, own.anonID); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("update game row")
	}
}

// recordFinish marks the row over and bumps the owning user's stats, in one tx.
func (s *Server) recordFinish(ctx context.Context, snap game.Snapshot, own owner) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("finish game: begin")
		return
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET status='over', finished_at=? WHERE id=? AND status='playing' AND `+ownerClause,
		nowStamp(), snap.ID, own.userID, own.anonID)
	if err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("finish game")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users
	                                   SET games_played = games_played + 1, best_score = MAX(best_score, ?)
	                                   WHERE id = (SELECT user_id FROM games WHERE id=?)`,
		snap.Score, snap.ID); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("bump stats")
		return
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("finish game: commit")
	}
}

// recordRestart resets the row of a restarted classic game.
func (s *Server) recordRestart(ctx context.Context, snap game.Snapshot, own owner) {
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET status='playing', score=?, max_tile=?, moves=0, started_at=?, finished_at=NULL
	                                    WHERE id=? AND `+ownerClause,
		snap.Score, snap.MaxTile, snap.StartedAt.Format(time.RFC3339), snap.ID, own.userID, own.anonID); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("restart game row")
	}
}

// claimAnonGames transfers any anonymous games to a user account after auth.
func (s *Server) claimAnonGames(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
}

// gameRow is one entry of GET /games/mine.
type gameRow struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	Score      int    `json:"score"`
	MaxTile    int    `json:"maxTile"`
	Moves      int    `json:"moves"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

func (s *Server) recentGames(ctx context.Context, userID string, limit int) ([]gameRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, mode, status, score, max_tile, moves, started_at, COALESCE(finished_at,'')
	                                     FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []gameRow{}
	for rows.Next() {
		var g gameRow
		if err := rows.Scan(&g.ID, &g.Mode, &g.Status, &g.Score, &g.MaxTile, &g.Moves, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
