package migrations

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT);`

func TestOpenAndMigrateDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	db, err := OpenAndMigrateDB(testSchema, path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv (key, value) VALUES ('a', 'b')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// migrating again keeps existing rows
	db, err = OpenAndMigrateDB(testSchema, path)
	require.NoError(t, err)
	defer db.Close()

	var value string
	err = db.QueryRow(`SELECT value FROM kv WHERE key = 'a'`).Scan(&value)
	require.NoError(t, err)
	require.Equal(t, "b", value)
}

func TestOpenAndMigrateDBBadSchema(t *testing.T) {
	_, err := OpenAndMigrateDB(`CREATE TABLE (`, ":memory:")
	require.Error(t, err)
}
