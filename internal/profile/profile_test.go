package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	t.Run("sqlite defaults", func(t *testing.T) {
		p := &Profile{
			Mode:   "dev",
			Data:   dir,
			Driver: "sqlite",
			Secret: "test-secret",
		}
		require.NoError(t, p.Validate())
		require.Equal(t, filepath.Join(dir, "grindlist_dev.db"), p.DSN)
	})

	t.Run("unknown mode falls back to dev", func(t *testing.T) {
		p := &Profile{
			Mode:   "staging",
			Data:   dir,
			Driver: "sqlite",
			Secret: "test-secret",
		}
		require.NoError(t, p.Validate())
		require.Equal(t, "dev", p.Mode)
		require.True(t, p.IsDev())
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		p := &Profile{
			Mode:   "prod",
			Data:   dir,
			Driver: "postgres",
			Secret: "test-secret",
		}
		require.Error(t, p.Validate())
	})

	t.Run("secret required", func(t *testing.T) {
		p := &Profile{
			Mode:   "dev",
			Data:   dir,
			Driver: "sqlite",
		}
		require.Error(t, p.Validate())
	})
}
