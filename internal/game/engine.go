// internal/game/engine.go
//
// Grid engine for a single 2048 game.
// Responsibilities:
//   - Initialize a game (empty grid, score 0, two spawned tiles).
//   - Apply moves: compaction + single-pass merge per line, rotations via
//     transpose/mirror, spawn exactly one tile when the grid changed.
//   - Report terminal (game over) and won state.
//
// Notes:
//   - The engine is not safe for concurrent use; hosts serialize calls
//     (see store.Store.Update).
//   - Randomness is injected through Source so games can be replayed.
package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source is the subset of *rand.Rand the engine needs.
type Source interface {
	IntN(n int) int
}

// Engine owns one grid and its score.
type Engine struct {
	grid  Grid
	score int
	won   bool
	rng   Source
}

// New returns an engine with a randomly seeded generator.
// Call Initialize before the first move.
func New() *Engine {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return NewWithSource(rand.New(rand.NewChaCha8(seed)))
}

// NewSeeded returns an engine whose spawn sequence depends only on seed.
// Two engines with the same seed fed the same moves produce the same games.
func NewSeeded(seed uint64) *Engine {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	return NewWithSource(rand.New(rand.NewChaCha8(s)))
}

// NewWithSource returns an engine drawing from src.
func NewWithSource(src Source) *Engine {
	return &Engine{rng: src}
}

// Initialize clears the grid and score and spawns two tiles.
func (e *Engine) Initialize() (Grid, int) {
	e.grid = Grid{}
	e.score = 0
	e.won = false
	e.spawn()
	e.spawn()
	return e.grid, e.score
}

// ApplyMove slides every line towards d. If the grid changed, one tile is
// spawned and the merged values are added to the score; otherwise nothing
// changes and Moved is false.
//
// d must be valid; ApplyMove panics otherwise. Validate untrusted input with
// ParseDirection.
func (e *Engine) ApplyMove(d Direction) Outcome {
	if !d.Valid() {
		panic(fmt.Sprintf("game: ApplyMove(%q): %v", d, ErrInvalidDirection))
	}
	before := e.grid
	after, gained := shift(before, d)
	if after == before {
		return e.outcome(false, 0)
	}
	e.grid = after
	e.score += gained
	if !e.won && maxTile(&e.grid) >= WinTile {
		e.won = true
	}
	e.spawn()
	return e.outcome(true, gained)
}

// IsGameOver reports whether no direction would change the grid.
func (e *Engine) IsGameOver() bool {
	return !canMove(&e.grid)
}

// Grid returns a copy of the current grid.
func (e *Engine) Grid() Grid { return e.grid }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Won reports whether a WinTile has been created in this game.
func (e *Engine) Won() bool { return e.won }

// MaxTile returns the largest tile on the grid.
func (e *Engine) MaxTile() int { return maxTile(&e.grid) }

// Restore loads a saved position. Every cell must be 0 or a power of two >= 2
// and score must be non-negative.
func (e *Engine) Restore(g Grid, score int) error {
	if score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidGrid, score)
	}
	for r := range g {
		for c, v := range g[r] {
			if !isTile(v) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", ErrInvalidGrid, r, c, v)
			}
		}
	}
	e.grid = g
	e.score = score
	e.won = maxTile(&g) >= WinTile
	return nil
}

// spawn places a 2 (90%) or 4 (10%) on a uniformly chosen empty cell.
// It is a no-op on a full grid.
func (e *Engine) spawn() bool {
	cells := emptyCells(&e.grid)
	if len(cells) == 0 {
		return false
	}
	at := cells[e.rng.IntN(len(cells))]
	v := 2
	if e.rng.IntN(10) == 0 {
		v = 4
	}
	e.grid[at[0]][at[1]] = v
	return true
}

func (e *Engine) outcome(moved bool, gained int) Outcome {
	return Outcome{
		Moved:  moved,
		Grid:   e.grid,
		Score:  e.score,
		Gained: gained,
		Over:   e.IsGameOver(),
		Won:    e.won,
	}
}
