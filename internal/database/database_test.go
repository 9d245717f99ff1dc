package database

import (
	"path/filepath"
	"testing"

	"gyandeep/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverName(t *testing.T) {
	tests := map[string]string{"sqlite": "sqlite", "postgres": "pgx", "oracle": "oracle"}
	for dialect, want := range tests {
		got, err := DriverName(dialect)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := DriverName("mysql")
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	script := `-- comment
CREATE TABLE a (
    id NUMBER
);

CREATE INDEX idx_a ON a (id);
DROP TABLE b`

	stmts := SplitStatements(script)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a ( id NUMBER )", stmts[0])
	assert.Equal(t, "CREATE INDEX idx_a ON a (id)", stmts[1])
	assert.Equal(t, "DROP TABLE b", stmts[2])
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:" + filepath.Join(t.TempDir(), "test.db"),
	}}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db, "sqlite"))
	// Re-running is a no-op.
	require.NoError(t, RunMigrations(db, "sqlite"))

	var tables []string
	require.NoError(t, db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' ORDER BY name"))
	assert.Equal(t, []string{"categories", "questions", "quiz_results", "users"}, tables)

	require.NoError(t, RollbackMigrations(db, "sqlite", 1))
	tables = nil
	require.NoError(t, db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' ORDER BY name"))
	assert.Empty(t, tables)
}
