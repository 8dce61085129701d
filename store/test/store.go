// Package test provides store construction helpers for tests.
package test

import (
	"context"
	"testing"

	"github.com/grindlist/grindlist/internal/profile"
	"github.com/grindlist/grindlist/store"
	"github.com/grindlist/grindlist/store/db"
)

// NewTestingStore returns a migrated Store backed by a throwaway SQLite
// database. The database lives in the test's temporary directory and is
// removed automatically.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "dev",
		Data:   t.TempDir(),
		Driver: "sqlite",
		Secret: "testing",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("failed to validate profile: %v", err)
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	st := store.New(driver, p)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return st
}
