package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource always returns v mod n.
type constSource int

func (c constSource) IntN(n int) int { return int(c) % n }

func restored(t *testing.T, g Grid, score int) *Engine {
	t.Helper()
	e := NewSeeded(1)
	require.NoError(t, e.Restore(g, score))
	return e
}

func nonZero(g Grid) []int {
	var out []int
	for r := range g {
		for _, v := range g[r] {
			if v != 0 {
				out = append(out, v)
			}
		}
	}
	return out
}

func TestInitialize_TwoTiles(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		e := NewSeeded(seed)
		g, score := e.Initialize()
		tiles := nonZero(g)
		require.Len(t, tiles, 2, "seed %d", seed)
		for _, v := range tiles {
			assert.Contains(t, []int{2, 4}, v)
		}
		assert.Equal(t, 0, score)
		assert.Equal(t, g, e.Grid())
	}
}

func TestInitialize_ResetsState(t *testing.T) {
	e := restored(t, Grid{{1024, 1024, 8, 8}}, 500)
	e.ApplyMove(Left)
	require.True(t, e.Won())

	_, score := e.Initialize()
	assert.Equal(t, 0, score)
	assert.False(t, e.Won())
	assert.Len(t, nonZero(e.Grid()), 2)
}

func TestSpawn_UsesSource(t *testing.T) {
	e := NewWithSource(constSource(0))
	g, _ := e.Initialize()
	// IntN(10) == 0 picks a 4; position 0 is the first empty cell.
	assert.Equal(t, 4, g[0][0])
	assert.Equal(t, 4, g[0][1])

	e = NewWithSource(constSource(1))
	g, _ = e.Initialize()
	assert.Equal(t, 2, g[0][1])
	assert.Equal(t, 2, g[0][2])
}

func TestSlideLeft(t *testing.T) {
	tests := []struct {
		name   string
		in     [Size]int
		want   [Size]int
		gained int
	}{
		{"empty", [Size]int{}, [Size]int{}, 0},
		{"single pass", [Size]int{2, 2, 2, 2}, [Size]int{4, 4, 0, 0}, 8},
		{"gap merge", [Size]int{2, 0, 2, 0}, [Size]int{4, 0, 0, 0}, 4},
		{"no rechain", [Size]int{4, 4, 8, 0}, [Size]int{8, 8, 0, 0}, 8},
		{"leading pair wins", [Size]int{2, 2, 2, 0}, [Size]int{4, 2, 0, 0}, 4},
		{"two pairs", [Size]int{2, 2, 4, 4}, [Size]int{4, 8, 0, 0}, 12},
		{"compact only", [Size]int{0, 0, 0, 2}, [Size]int{2, 0, 0, 0}, 0},
		{"blocked", [Size]int{2, 4, 8, 16}, [Size]int{2, 4, 8, 16}, 0},
		{"split pair", [Size]int{8, 0, 8, 8}, [Size]int{16, 8, 0, 0}, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gained := slideLeft(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.gained, gained)
		})
	}
}

func TestApplyMove_MergeScenario(t *testing.T) {
	e := restored(t, Grid{{2, 2, 0, 0}}, 0)

	out := e.ApplyMove(Left)
	require.True(t, out.Moved)
	assert.Equal(t, 4, out.Grid[0][0])
	assert.Equal(t, 4, out.Score)
	assert.Equal(t, 4, out.Gained)
	assert.Equal(t, 14, out.Grid.Empty(), "one tile spawned among the 15 empty cells")
	assert.Contains(t, []int{6, 8}, out.Grid.Sum())
	assert.False(t, out.Over)
}

func TestApplyMove_SinglePassMerge(t *testing.T) {
	e := restored(t, Grid{{2, 2, 2, 2}}, 0)

	out := e.ApplyMove(Left)
	require.True(t, out.Moved)
	assert.Equal(t, 4, out.Grid[0][0])
	assert.Equal(t, 4, out.Grid[0][1])
	assert.Equal(t, 8, out.Score)
}

func TestApplyMove_NoChangeIsIdempotent(t *testing.T) {
	start := Grid{
		{2, 4, 0, 0},
		{8, 0, 0, 0},
	}
	e := restored(t, start, 12)

	for i := 0; i < 2; i++ {
		out := e.ApplyMove(Left)
		assert.False(t, out.Moved)
		assert.Equal(t, 0, out.Gained)
		assert.Equal(t, start, out.Grid)
		assert.Equal(t, 12, out.Score)
	}
	assert.Equal(t, start, e.Grid())
}

func TestApplyMove_Conservation(t *testing.T) {
	e := NewSeeded(99)
	e.Initialize()
	for i := 0; i < 500 && !e.IsGameOver(); i++ {
		before := e.Grid().Sum()
		prevScore := e.Score()
		out := e.ApplyMove(Directions[i%len(Directions)])
		spawned := out.Grid.Sum() - before
		if out.Moved {
			assert.Contains(t, []int{2, 4}, spawned)
		} else {
			assert.Zero(t, spawned)
		}
		assert.GreaterOrEqual(t, out.Score, prevScore)
		assert.Equal(t, prevScore+out.Gained, out.Score)
		for _, v := range nonZero(out.Grid) {
			require.True(t, isTile(v), "tile %d", v)
		}
	}
}

func TestShift_DirectionalSymmetry(t *testing.T) {
	e := NewSeeded(3)
	e.Initialize()
	for i := 0; i < 200 && !e.IsGameOver(); i++ {
		g := e.Grid()

		right, gr := shift(g, Right)
		left, gl := shift(mirror(g), Left)
		assert.Equal(t, left, mirror(right))
		assert.Equal(t, gl, gr)

		up, gu := shift(g, Up)
		tl, gtl := shift(transpose(g), Left)
		assert.Equal(t, tl, transpose(up))
		assert.Equal(t, gtl, gu)

		down, gd := shift(g, Down)
		tr, gtr := shift(transpose(g), Right)
		assert.Equal(t, tr, transpose(down))
		assert.Equal(t, gtr, gd)

		e.ApplyMove(Directions[(i*7)%len(Directions)])
	}
}

func TestApplyMove_Directions(t *testing.T) {
	g := Grid{
		{2, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{2, 0, 0, 0},
	}
	tests := []struct {
		d    Direction
		want Grid
	}{
		{Left, Grid{{4, 0, 0, 0}, {}, {}, {2, 0, 0, 0}}},
		{Right, Grid{{0, 0, 0, 4}, {}, {}, {0, 0, 0, 2}}},
		{Up, Grid{{4, 0, 0, 2}, {}, {}, {}}},
		{Down, Grid{{}, {}, {}, {4, 0, 0, 2}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.d), func(t *testing.T) {
			got, gained := shift(g, tt.d)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 4, gained)
		})
	}
}

func TestIsGameOver(t *testing.T) {
	checker := Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	e := restored(t, checker, 100)
	require.True(t, e.IsGameOver())
	for _, d := range Directions {
		out := e.ApplyMove(d)
		assert.False(t, out.Moved, "direction %s", d)
		assert.True(t, out.Over)
		assert.Equal(t, 100, out.Score)
	}
	assert.True(t, e.IsGameOver(), "query is pure")

	withGap := checker
	withGap[2][1] = 0
	assert.False(t, restored(t, withGap, 0).IsGameOver())

	withPair := checker
	withPair[3][3] = 4
	assert.False(t, restored(t, withPair, 0).IsGameOver())
}

func TestApplyMove_Won(t *testing.T) {
	e := restored(t, Grid{{1024, 1024, 0, 0}}, 0)
	require.False(t, e.Won())

	out := e.ApplyMove(Left)
	assert.True(t, out.Won)
	assert.False(t, out.Over)
	assert.Equal(t, WinTile, e.MaxTile())
	assert.Equal(t, 2048, out.Score)
}

func TestApplyMove_InvalidDirectionPanics(t *testing.T) {
	e := NewSeeded(1)
	e.Initialize()
	assert.Panics(t, func() { e.ApplyMove(Direction("sideways")) })
}

func TestRestore_Validates(t *testing.T) {
	e := NewSeeded(1)
	assert.ErrorIs(t, e.Restore(Grid{{3}}, 0), ErrInvalidGrid)
	assert.ErrorIs(t, e.Restore(Grid{{1}}, 0), ErrInvalidGrid)
	assert.ErrorIs(t, e.Restore(Grid{{2}}, -1), ErrInvalidGrid)
	assert.NoError(t, e.Restore(Grid{{2, 4, 8, 4096}}, 10))
	assert.True(t, e.Won())
}

func TestNewSeeded_Deterministic(t *testing.T) {
	a, b := NewSeeded(2048), NewSeeded(2048)
	ga, _ := a.Initialize()
	gb, _ := b.Initialize()
	require.Equal(t, ga, gb)
	for i := 0; i < 100; i++ {
		d := Directions[(i*3+i/5)%len(Directions)]
		assert.Equal(t, a.ApplyMove(d), b.ApplyMove(d))
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" Up ")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	_, err = ParseDirection("north")
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = ParseDirection("")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
