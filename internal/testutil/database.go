package testutil

import (
	"testing"

	"filelist-go/internal/database"
)

// NewTestStore creates a new in-memory scan store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) *database.Store {
	t.Helper()

	store, err := database.CreateStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// NewTestMergedStore creates a new in-memory merged store with schema
// applied. The store is automatically closed when the test completes.
func NewTestMergedStore(t *testing.T) *database.MergedStore {
	t.Helper()

	store, err := database.CreateMergedStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create merged store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
