package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/gateway/storage"
	"weather-client/internal/state"
)

func newPersistor(kv storage.KeyValueStore) (*state.Store, *Persistor) {
	store := state.NewStore(state.InitialState(false))
	return store, NewPersistor(store, kv, ThemeConfig(func() bool { return true }), SearchConfig())
}

func TestRehydrateDropsInvalidHistoryItems(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	_ = kv.Set(ctx, SearchKey, `{"searchHistory":[
		{"id":"x1","name":"Tokyo","country":"JP","lat":35,"lon":139,"timestamp":1},
		{"id":"x2","name":"Osaka","country":"JP","lon":135,"timestamp":2}
	]}`)

	store, persistor := newPersistor(kv)
	persistor.Rehydrate(ctx)

	history := store.GetState().Search.SearchHistory
	if len(history) != 1 || history[0].ID != "x1" {
		t.Fatalf("history = %+v, want only x1", history)
	}
}

func TestRehydrateThemeRecomputesIsDark(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	_ = kv.Set(ctx, ThemeKey, `{"mode":"system"}`)

	store, persistor := newPersistor(kv)
	persistor.Rehydrate(ctx)

	theme := store.GetState().Theme
	if theme.Mode != entity.ThemeSystem || !theme.IsDark {
		t.Errorf("theme = %+v, want system resolved against a dark OS", theme)
	}
}

func TestRehydrateSkipsBrokenSliceOnly(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	_ = kv.Set(ctx, ThemeKey, `{"mode":"sepia"}`)
	_ = kv.Set(ctx, SearchKey, `{"searchHistory":[{"id":"x1","name":"Tokyo","country":"JP","lat":35,"lon":139,"timestamp":1}]}`)

	store, persistor := newPersistor(kv)
	persistor.Rehydrate(ctx)

	current := store.GetState()
	if current.Theme.Mode != entity.ThemeSystem {
		t.Errorf("unknown mode must keep the default, got %s", current.Theme.Mode)
	}
	if len(current.Search.SearchHistory) != 1 {
		t.Errorf("search slice should still be restored")
	}
}

func TestWriteBackStoresOnlyWhitelistedFields(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	store, persistor := newPersistor(kv)
	persistor.Start(ctx)

	store.Dispatch(state.SetSearchTerm{Term: "tok"})
	store.Dispatch(state.AddToSearchHistory{Result: entity.SearchResult{ID: "x1", Name: "Tokyo", Country: "JP", Lat: 35, Lon: 139}, Timestamp: 9})
	persistor.Close()

	raw, found, _ := kv.Get(ctx, SearchKey)
	if !found {
		t.Fatal("search history was not written")
	}
	var document map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if len(document) != 1 || document["searchHistory"] == nil {
		t.Errorf("stored document = %s, want only searchHistory", raw)
	}
	if strings.Contains(raw, "currentSearchTerm") {
		t.Errorf("search term leaked into storage: %s", raw)
	}

	if _, found, _ := kv.Get(ctx, ThemeKey); found {
		t.Error("unchanged theme must not be written")
	}
}

func TestWriteBackRoundTrip(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()

	store, persistor := newPersistor(kv)
	persistor.Start(ctx)
	store.Dispatch(state.SetThemeMode{Mode: entity.ThemeDark})
	store.Dispatch(state.AddToSearchHistory{Result: entity.SearchResult{ID: "x1", Name: "Tokyo", Country: "JP", State: "Tokyo"}, Timestamp: 9})
	persistor.Close()

	restored, rehydrator := newPersistor(kv)
	rehydrator.Rehydrate(ctx)

	current := restored.GetState()
	if current.Theme.Mode != entity.ThemeDark {
		t.Errorf("mode = %s, want dark", current.Theme.Mode)
	}
	if len(current.Search.SearchHistory) != 1 || current.Search.SearchHistory[0].State != "Tokyo" {
		t.Errorf("history = %+v", current.Search.SearchHistory)
	}
}

type failingStore struct {
	*storage.MemoryStore
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	store, persistor := newPersistor(failingStore{storage.NewMemoryStore()})
	persistor.Start(context.Background())

	store.Dispatch(state.SetThemeMode{Mode: entity.ThemeLight})
	persistor.Close()

	if mode := store.GetState().Theme.Mode; mode != entity.ThemeLight {
		t.Errorf("mode = %s, memory state must not roll back", mode)
	}
}

// blockingStore holds every Set until release is closed.
type blockingStore struct {
	*storage.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (b blockingStore) Set(ctx context.Context, key, value string) error {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return b.MemoryStore.Set(ctx, key, value)
}

func TestSlowStorageDoesNotBlockDispatch(t *testing.T) {
	kv := blockingStore{MemoryStore: storage.NewMemoryStore(), entered: make(chan struct{}, 1), release: make(chan struct{})}
	ctx := context.Background()
	store, persistor := newPersistor(kv)
	persistor.Start(ctx)

	add := func(i int) {
		store.Dispatch(state.AddToSearchHistory{
			Result:    entity.SearchResult{ID: fmt.Sprintf("x%d", i), Name: "Tokyo", Country: "JP", Lat: 35, Lon: 139},
			Timestamp: int64(i),
		})
	}
	add(0)
	select {
	case <-kv.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("writer never reached storage")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 40; i++ {
			add(i)
		}
		_ = store.GetState()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		close(kv.release)
		t.Fatal("dispatch blocked behind a slow storage write")
	}

	close(kv.release)
	persistor.Close()

	raw, found, _ := kv.Get(ctx, SearchKey)
	if !found {
		t.Fatal("search history was not written")
	}
	var document struct {
		SearchHistory []entity.SearchHistoryItem `json:"searchHistory"`
	}
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if len(document.SearchHistory) != 10 || document.SearchHistory[0].ID != "x40" {
		t.Errorf("stored history = %s, want the latest ten entries", raw)
	}
}

func TestPurgeRemovesPersistedKeys(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	_ = kv.Set(ctx, ThemeKey, `{"mode":"dark"}`)
	_ = kv.Set(ctx, SearchKey, `{"searchHistory":[]}`)
	_ = kv.Set(ctx, "unrelated", "x")

	_, persistor := newPersistor(kv)
	if err := persistor.Purge(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}

	for _, key := range []string{ThemeKey, SearchKey} {
		if _, found, _ := kv.Get(ctx, key); found {
			t.Errorf("%s should be purged", key)
		}
	}
	if _, found, _ := kv.Get(ctx, "unrelated"); !found {
		t.Error("keys owned by others must survive a purge")
	}
}

func TestCloseWithoutStart(t *testing.T) {
	_, persistor := newPersistor(storage.NewMemoryStore())
	persistor.Close()
	persistor.Close()
}
