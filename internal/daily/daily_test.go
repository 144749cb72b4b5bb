package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/game2048/assets"
	"github.com/robalobadob/game2048/internal/database"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	assert.Equal(t, "2026-10-18", DateKey(time.Date(2026, 10, 19, 5, 0, 0, 0, loc)))
}

func TestSeed(t *testing.T) {
	morning := time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
	tomorrow := morning.Add(24 * time.Hour)

	assert.Equal(t, Seed(morning, "salt"), Seed(evening, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(tomorrow, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(morning, "pepper"))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return NewStore(db)
}

func TestStore_InsertOncePerDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	played, err := s.AlreadyPlayed(ctx, "u1", "2026-10-19")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: "2026-10-19", Score: 100, MaxTile: 16}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: "2026-10-19", Score: 9999, MaxTile: 512}))

	played, err = s.AlreadyPlayed(ctx, "u1", "2026-10-19")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := s.Leaderboard(ctx, "2026-10-19", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 100, rows[0].Score, "second insert ignored")
}

func TestStore_LeaderboardOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	date := "2026-10-19"
	for _, r := range []Result{
		{UserID: "slow", Date: date, Score: 500, MaxTile: 64, ElapsedMs: 9000},
		{UserID: "fast", Date: date, Score: 500, MaxTile: 64, ElapsedMs: 1000},
		{UserID: "big", Date: date, Score: 500, MaxTile: 128, ElapsedMs: 20000},
		{UserID: "top", Date: date, Score: 800, MaxTile: 64, ElapsedMs: 50000},
		{UserID: "other-day", Date: "2026-10-18", Score: 10000, MaxTile: 1024},
	} {
		require.NoError(t, s.InsertResult(ctx, r))
	}

	rows, err := s.Leaderboard(ctx, date, 0)
	require.NoError(t, err)
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	assert.Equal(t, []string{"top", "big", "fast", "slow"}, ids)

	rows, err = s.Leaderboard(ctx, date, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
