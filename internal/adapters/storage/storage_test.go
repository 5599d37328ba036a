package storage

import (
	"context"
	"testing"
)

func TestMemoryStoreMissingKeyIsEmpty(t *testing.T) {
	store := NewMemoryStore()

	val, err := store.Get(context.Background(), KeyToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "" {
		t.Fatalf("missing key must read as empty string, got %q", val)
	}
}

func TestMemoryStoreSetGetRemove(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, KeyToken, "t1")
	store.Set(ctx, KeyRefreshToken, "r1")

	if val, _ := store.Get(ctx, KeyToken); val != "t1" {
		t.Fatalf("expected t1, got %q", val)
	}

	if err := store.Remove(ctx, SessionKeys...); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	for _, key := range SessionKeys {
		if val, _ := store.Get(ctx, key); val != "" {
			t.Fatalf("key %s survived removal: %q", key, val)
		}
	}

	// Removing missing keys is not an error
	if err := store.Remove(ctx, "never-set"); err != nil {
		t.Fatalf("remove of missing key failed: %v", err)
	}
}
