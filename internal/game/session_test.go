package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession(ModeClassic, NewSeeded(5))
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "playing", s.State())
	assert.Len(t, nonZero(s.Engine.Grid()), 2)
	assert.False(t, s.StartedAt.IsZero())

	other := NewSession(ModeClassic, NewSeeded(5))
	assert.NotEqual(t, s.ID, other.ID)
}

func TestSession_MoveCountsOnlyChanges(t *testing.T) {
	s := NewSession(ModeClassic, NewSeeded(5))
	require.NoError(t, s.Engine.Restore(Grid{{2, 4, 0, 0}}, 0))

	out, err := s.Move(Left)
	require.NoError(t, err)
	assert.False(t, out.Moved)
	assert.Equal(t, 0, s.Moves)

	out, err = s.Move(Right)
	require.NoError(t, err)
	assert.True(t, out.Moved)
	assert.Equal(t, 1, s.Moves)
}

func TestSession_FinishedRejectsMoves(t *testing.T) {
	s := NewSession(ModeClassic, NewSeeded(5))
	require.NoError(t, s.Engine.Restore(Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}, 0))

	out, err := s.Move(Up)
	require.NoError(t, err)
	assert.True(t, out.Over)
	assert.True(t, s.Finished)
	assert.Equal(t, "over", s.State())

	_, err = s.Move(Down)
	assert.ErrorIs(t, err, ErrFinished)

	s.Restart()
	assert.False(t, s.Finished)
	assert.Equal(t, 0, s.Moves)
	assert.Equal(t, 0, s.Engine.Score())
}

func TestSession_Snapshot(t *testing.T) {
	s := NewSession(ModeDaily, NewSeeded(9))
	s.Date = "2026-10-19"
	snap := s.Snapshot()
	assert.Equal(t, s.ID, snap.ID)
	assert.Equal(t, ModeDaily, snap.Mode)
	assert.Equal(t, "2026-10-19", snap.Date)
	assert.Equal(t, s.Engine.Grid(), snap.Grid)

	// Snapshots are copies.
	snap.Grid[0][0] = 1
	assert.NotEqual(t, snap.Grid, s.Engine.Grid())
}
