// internal/game/types.go
//
// Core type definitions for the 2048 game engine.
// Defines:
//   - Grid: the fixed-size tile matrix (value type, so copies are snapshots).
//   - Direction: one of the four slide directions.
//   - Outcome: the result of applying a single move.
//   - Session / Snapshot: a hosted game and its read-only view.

package game

import (
	"errors"
	"strings"
	"time"
)

const (
	// Size is the side length of the square grid.
	Size = 4

	// WinTile is the tile value that marks a game as won. Play continues past it.
	WinTile = 2048
)

// Grid is an N×N matrix of tile values. 0 is an empty cell; every other cell
// holds a power of two >= 2.
type Grid [Size][Size]int

// Direction names the side tiles slide towards.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid Direction.
var Directions = [...]Direction{Up, Down, Left, Right}

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidGrid      = errors.New("invalid grid")
	ErrFinished         = errors.New("game finished")
)

// ParseDirection validates untrusted input (request bodies, key bindings).
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrInvalidDirection
	}
	return d, nil
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Outcome describes a single ApplyMove call.
type Outcome struct {
	Moved  bool `json:"moved"`  // grid changed (and a tile was spawned)
	Grid   Grid `json:"grid"`   // grid after the move and spawn
	Score  int  `json:"score"`  // total score after the move
	Gained int  `json:"gained"` // sum of tiles created by merges in this move
	Over   bool `json:"over"`   // no further move can change the grid
	Won    bool `json:"won"`    // a WinTile has been reached at some point
}

// Mode distinguishes free play from the seeded daily challenge.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

// Session holds the state of a single hosted game.
type Session struct {
	ID        string    // Unique game identifier (uuid).
	Mode      Mode      // classic | daily
	Date      string    // Daily date key (YYYY-MM-DD); empty for classic games.
	OwnerID   string    // User or anonymous id that started the game.
	Engine    *Engine   // Grid engine; mutate only through Session methods.
	Moves     int       // Number of moves that changed the grid.
	StartedAt time.Time // When the current game (or restart) began.
	Finished  bool      // True once the engine reports game over.
}

// Snapshot is a copy of a Session safe to hand to other goroutines.
type Snapshot struct {
	ID        string    `json:"gameId"`
	Mode      Mode      `json:"mode"`
	Date      string    `json:"date,omitempty"`
	Grid      Grid      `json:"grid"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"maxTile"`
	Moves     int       `json:"moves"`
	Over      bool      `json:"over"`
	Won       bool      `json:"won"`
	StartedAt time.Time `json:"startedAt"`
}
