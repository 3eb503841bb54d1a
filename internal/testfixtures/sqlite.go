package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/campshare/internal/persistence/sqlite"
)

// NewSQLiteStore opens and migrates a store in a temporary directory. It is closed on cleanup.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "campshare.db")
	store, err := sqlite.Open(context.Background(), sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	tb.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate sqlite store: %v", err)
	}
	return store
}

// NewSQLiteHarness opens a container over a temporary SQLite store.
func NewSQLiteHarness(tb testing.TB, opts ...ContainerFactoryOption) *Harness {
	tb.Helper()

	factory := NewContainerFactory(opts...)
	store := NewSQLiteStore(tb)
	return &Harness{ContainerFactory: factory, Container: factory.Open(tb, store), Store: store}
}
