// internal/daily/store.go
//
// SQL persistence for daily challenge results.
// Responsibilities:
//   - One result per player per date (UNIQUE(user_id, date), INSERT OR IGNORE).
//   - Leaderboard for a date: score, then max tile, then fastest.

package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is one player's finished daily game.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Score     int    `json:"score"`
	MaxTile   int    `json:"maxTile"`
	Moves     int    `json:"moves"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores r. A second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, score, max_tile, moves, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.UserID, r.Date, r.Score, r.MaxTile, r.Moves, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	return nil
}

// LBRow is one leaderboard entry.
type LBRow struct {
	UserID    string `json:"userId"`
	Username  string `json:"username,omitempty"`
	Score     int    `json:"score"`
	MaxTile   int    `json:"maxTile"`
	Moves     int    `json:"moves"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard returns the best results for date: highest score first, then
// biggest tile, then fastest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.user_id, COALESCE(u.username, ''), d.score, d.max_tile, d.moves, d.elapsed_ms
		 FROM daily_results d
		 LEFT JOIN users u ON u.id = d.user_id
		 WHERE d.date=?
		 ORDER BY d.score DESC, d.max_tile DESC, d.elapsed_ms ASC, d.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Score, &r.MaxTile, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
