// internal/game/grid.go
//
// Pure grid transformations used by the engine.
// Responsibilities:
//   - Slide and merge a single line towards index 0 (single-pass merge).
//   - Express every direction through transpose/mirror + slide left.
//   - Grid queries: empty cells, possible moves, largest tile.

package game

// slideLeft compacts a line towards index 0 and merges equal neighbours in a
// single pass. A tile produced by a merge is never merged again in the same
// call, so [2,2,2,2] becomes [4,4,0,0]. Returns the new line and the sum of the
// merged tiles.
func slideLeft(line [Size]int) ([Size]int, int) {
	var out [Size]int
	n, gained, pending := 0, 0, 0
	for _, v := range line {
		if v == 0 {
			continue
		}
		if pending == v {
			out[n] = v * 2
			gained += v * 2
			n++
			pending = 0
			continue
		}
		if pending != 0 {
			out[n] = pending
			n++
		}
		pending = v
	}
	if pending != 0 {
		out[n] = pending
	}
	return out, gained
}

func transpose(g Grid) Grid {
	var t Grid
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			t[c][r] = g[r][c]
		}
	}
	return t
}

// mirror reverses every row.
func mirror(g Grid) Grid {
	var m Grid
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			m[r][Size-1-c] = g[r][c]
		}
	}
	return m
}

func slideRowsLeft(g Grid) (Grid, int) {
	total := 0
	for r := range g {
		var gained int
		g[r], gained = slideLeft(g[r])
		total += gained
	}
	return g, total
}

// shift applies a full move to g without spawning. right is left on mirrored
// rows; up and down are left and right on the transpose.
func shift(g Grid, d Direction) (Grid, int) {
	switch d {
	case Left:
		return slideRowsLeft(g)
	case Right:
		out, gained := slideRowsLeft(mirror(g))
		return mirror(out), gained
	case Up:
		out, gained := shift(transpose(g), Left)
		return transpose(out), gained
	case Down:
		out, gained := shift(transpose(g), Right)
		return transpose(out), gained
	}
	panic("game: shift called with invalid direction " + string(d))
}

// emptyCells returns the coordinates of all zero cells in row-major order.
func emptyCells(g *Grid) [][2]int {
	var out [][2]int
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] == 0 {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}

// canMove reports whether any direction would change g: an empty cell or two
// equal orthogonal neighbours.
func canMove(g *Grid) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := g[r][c]
			if v == 0 {
				return true
			}
			if c+1 < Size && g[r][c+1] == v {
				return true
			}
			if r+1 < Size && g[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

func maxTile(g *Grid) int {
	m := 0
	for r := range g {
		for _, v := range g[r] {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func isTile(v int) bool {
	return v == 0 || (v >= 2 && v&(v-1) == 0)
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	s := 0
	for r := range g {
		for _, v := range g[r] {
			s += v
		}
	}
	return s
}

// Empty returns the number of zero cells.
func (g Grid) Empty() int {
	return len(emptyCells(&g))
}
