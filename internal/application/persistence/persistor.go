package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"weather-client/internal/domain/gateway/storage"
	"weather-client/internal/state"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
)

// Config makes one whitelisted part of the state durable under Key.
type Config struct {
	Key string
	// Select returns the whitelisted fields; its JSON encoding is what gets stored
	Select func(state.State) any
	// Rehydrate turns a stored document back into an action, dropping what fails validation
	Rehydrate func(raw []byte) (state.Action, error)
}

// Persistor replays stored state at startup and writes whitelisted state back after every
// transition that changes it. Writes are best effort: a failure is logged and the in-memory
// state is kept. Only the latest snapshot of each key is written; snapshots superseded
// while storage is busy are skipped.
type Persistor struct {
	store        *state.Store
	kv           storage.KeyValueStore
	configs      []Config
	writeTimeout time.Duration

	mu      sync.Mutex
	pending map[string]string
	// writeMu orders flushes and purges against storage
	writeMu sync.Mutex

	signal      chan struct{}
	stop        chan struct{}
	done        chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

func NewPersistor(store *state.Store, kv storage.KeyValueStore, configs ...Config) *Persistor {
	return &Persistor{
		store:        store,
		kv:           kv,
		configs:      configs,
		writeTimeout: 5 * time.Second,
		pending:      make(map[string]string),
		signal:       make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Keys lists the storage keys this persistor owns
func (p *Persistor) Keys() []string {
	keys := make([]string, 0, len(p.configs))
	for _, cfg := range p.configs {
		keys = append(keys, cfg.Key)
	}
	return keys
}

// Rehydrate reads every key and dispatches what survives validation. A key that cannot be
// read or decoded only skips its own slice.
func (p *Persistor) Rehydrate(ctx context.Context) {
	for _, cfg := range p.configs {
		raw, found, err := p.kv.Get(ctx, cfg.Key)
		if err != nil {
			log.Error(msg.GetMessage("persistence.rehydrate-failed", cfg.Key), zap.Error(err))
			continue
		}
		if !found {
			continue
		}

		action, err := cfg.Rehydrate([]byte(raw))
		if err != nil {
			log.Error(msg.GetMessage("persistence.rehydrate-failed", cfg.Key), zap.Error(err))
			continue
		}

		p.store.Dispatch(action)
		log.Info(msg.GetMessage("persistence.rehydrated", cfg.Key))
	}
}

// Start subscribes to the store and runs the writer until Close.
func (p *Persistor) Start(ctx context.Context) {
	p.unsubscribe = p.store.Subscribe(p.onTransition)
	go p.writer(context.WithoutCancel(ctx))
}

// onTransition runs under the store lock. It records the snapshot and wakes the writer
// without ever waiting on storage.
func (p *Persistor) onTransition(_ state.Action, prev, next state.State) {
	for _, cfg := range p.configs {
		selected := cfg.Select(next)
		if reflect.DeepEqual(cfg.Select(prev), selected) {
			continue
		}

		data, err := json.Marshal(selected)
		if err != nil {
			log.Error(msg.GetMessage("persistence.write-failed", cfg.Key), zap.Error(err))
			continue
		}

		p.mu.Lock()
		p.pending[cfg.Key] = string(data)
		p.mu.Unlock()

		select {
		case p.signal <- struct{}{}:
		default:
		}
	}
}

func (p *Persistor) writer(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-p.signal:
			p.flush(ctx)
		case <-p.stop:
			p.flush(ctx)
			return
		}
	}
}

// flush writes the latest pending snapshot of every key
func (p *Persistor) flush(ctx context.Context) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	pending := p.pending
	p.pending = make(map[string]string)
	p.mu.Unlock()

	for _, key := range slices.Sorted(maps.Keys(pending)) {
		writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
		if err := p.kv.Set(writeCtx, key, pending[key]); err != nil {
			log.Error(msg.GetMessage("persistence.write-failed", key), zap.Error(err))
		}
		cancel()
	}
}

// Close stops observing the store and waits for the last pending writes to finish.
func (p *Persistor) Close() {
	p.closeOnce.Do(func() {
		if p.unsubscribe == nil {
			close(p.done)
			return
		}
		p.unsubscribe()
		close(p.stop)
		<-p.done
	})
}

// Purge removes every key this persistor owns and drops snapshots not yet written. The
// in-memory state is untouched; the next change of a slice persists it again.
func (p *Persistor) Purge(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	clear(p.pending)
	p.mu.Unlock()

	if err := p.kv.MultiRemove(ctx, p.Keys()); err != nil {
		return fmt.Errorf("failed to purge persisted state: %w", err)
	}
	log.Info(msg.GetMessage("persistence.purged"), zap.Strings("keys", p.Keys()))
	return nil
}
