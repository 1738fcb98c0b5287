package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		require.NoError(t, LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")))
		assert.Equal(t, "8080", DefaultEnvConfig.APP_PORT)
		assert.Equal(t, "postgres", DefaultEnvConfig.DB_DRIVER)
		assert.Equal(t, 5432, DefaultEnvConfig.DB_PORT)
		assert.Equal(t, "sql", DefaultEnvConfig.TASK_STORE)
		assert.Equal(t, "America/Sao_Paulo", DefaultEnvConfig.DISPLAY_TIMEZONE)
		assert.Equal(t, 30*time.Second, DefaultEnvConfig.SHUTDOWN_TIMEOUT)
	})

	t.Run("FromDotEnvFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=sqlite\nDB_SQLITE_PATH=/tmp/x.db\n"), 0o644))
		t.Cleanup(func() {
			os.Unsetenv("DB_DRIVER")
			os.Unsetenv("DB_SQLITE_PATH")
		})

		require.NoError(t, LoadEnvConfig(path))
		assert.Equal(t, "sqlite", DefaultEnvConfig.DB_DRIVER)
		assert.Equal(t, "/tmp/x.db", DefaultEnvConfig.DB_SQLITE_PATH)
	})

	t.Run("InvalidPort", func(t *testing.T) {
		t.Setenv("DB_PORT", "abc")
		assert.Error(t, LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")))
	})

	t.Run("DatastoreNeedsProject", func(t *testing.T) {
		t.Setenv("TASK_STORE", "datastore")
		t.Setenv("GCP_PROJECT_ID", "")
		assert.Error(t, LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")))
	})

	t.Run("UnknownTimezone", func(t *testing.T) {
		t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus")
		assert.Error(t, LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")))
	})
}
