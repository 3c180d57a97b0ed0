package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"weather-client/internal/domain/model"
)

func exercise(t *testing.T, store KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := store.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}

	if err := store.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set a: %v", err)
	}
	if err := store.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("set b: %v", err)
	}
	if err := store.Set(ctx, "a", "3"); err != nil {
		t.Fatalf("overwrite a: %v", err)
	}
	if value, found, _ := store.Get(ctx, "a"); !found || value != "3" {
		t.Errorf("a = %q found=%v, want 3", value, found)
	}

	if err := store.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove a: %v", err)
	}
	if _, found, _ := store.Get(ctx, "a"); found {
		t.Error("a should be gone")
	}

	if err := store.MultiRemove(ctx, []string{"b", "never-set"}); err != nil {
		t.Fatalf("multi remove: %v", err)
	}
	if _, found, _ := store.Get(ctx, "b"); found {
		t.Error("b should be gone")
	}

	if health := store.Health(); health.Status != model.StatusUp {
		t.Errorf("health = %+v", health)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "storage.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	exercise(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "persist:theme", `{"mode":"dark"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if value, found, _ := second.Get(ctx, "persist:theme"); !found || value != `{"mode":"dark"}` {
		t.Errorf("value = %q found=%v", value, found)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path); err == nil {
		t.Error("expected an error for a corrupt storage file")
	}
}
