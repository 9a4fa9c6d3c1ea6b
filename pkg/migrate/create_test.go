package migrate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateSQLMigrationBumpsPastExistingVersion(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	first, err := createSQLMigration(dir, "create widgets", now)
	require.NoError(t, err)
	require.Equal(t, "20261001120000_create_widgets.sql", filepath.Base(first))

	second, err := createSQLMigration(dir, "add widget index", now)
	require.NoError(t, err)
	require.Equal(t, "20261001120001_add_widget_index.sql", filepath.Base(second))

	body, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Contains(t, string(body), "-- +goose Up")
	require.Contains(t, string(body), "rollback add_widget_index")

	require.NoError(t, ValidateDir(dir))
}

func TestSanitizeName(t *testing.T) {
	require.Equal(t, "add_store_hours", sanitizeName("  Add Store-Hours! "))
	require.Empty(t, sanitizeName("!!!"))
}
