package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/game2048/assets"
)

func TestMigrate_EmbeddedIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	require.NoError(t, Migrate(db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)

	for _, table := range []string{"users", "games", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	migrations := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); NOT SQL;`)},
	}
	require.Error(t, Migrate(db, migrations))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)

	err = db.QueryRow(`SELECT COUNT(*) FROM b`).Scan(&n)
	assert.Error(t, err, "table from failed migration must not exist")
}
