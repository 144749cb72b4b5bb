// internal/game/session.go
//
// Hosted game sessions.
// Responsibilities:
//   - Wrap an Engine with id, mode, owner and move counters.
//   - Reject moves once the game is over; restart in place.
//   - Produce JSON-friendly snapshots for the API.

package game

import (
	"time"

	"github.com/google/uuid"
)

// NewSession wraps eng in a fresh, initialized session.
func NewSession(mode Mode, eng *Engine) *Session {
	s := &Session{
		ID:     uuid.New().String(),
		Mode:   mode,
		Engine: eng,
	}
	s.Restart()
	return s
}

// Move applies d and updates the session counters.
// Returns ErrFinished once the game is over.
func (s *Session) Move(d Direction) (Outcome, error) {
	if s.Finished {
		return Outcome{}, ErrFinished
	}
	out := s.Engine.ApplyMove(d)
	if out.Moved {
		s.Moves++
	}
	s.Finished = out.Over
	return out, nil
}

// Restart re-initializes the engine and resets the counters.
func (s *Session) Restart() {
	s.Engine.Initialize()
	s.Moves = 0
	s.Finished = false
	s.StartedAt = time.Now().UTC()
}

// State reports a coarse string for history rows: "playing" or "over".
func (s *Session) State() string {
	if s.Finished {
		return "over"
	}
	return "playing"
}

// Snapshot copies the observable state of s.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		Mode:      s.Mode,
		Date:      s.Date,
		Grid:      s.Engine.Grid(),
		Score:     s.Engine.Score(),
		MaxTile:   s.Engine.MaxTile(),
		Moves:     s.Moves,
		Over:      s.Engine.IsGameOver(),
		Won:       s.Engine.Won(),
		StartedAt: s.StartedAt,
	}
}
