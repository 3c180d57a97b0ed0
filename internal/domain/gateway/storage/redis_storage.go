package storage

import (
	"context"
	"strconv"
	"time"

	"weather-client/internal/domain/model"
	"weather-client/pkg/redis"
)

type RedisStore struct {
	client *redis.Client
}

var _ KeyValueStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (store *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	return store.client.Get(ctx, key)
}

func (store *RedisStore) Set(ctx context.Context, key, value string) error {
	return store.client.Set(ctx, key, value, 0)
}

func (store *RedisStore) Remove(ctx context.Context, key string) error {
	return store.client.Delete(ctx, key)
}

func (store *RedisStore) MultiRemove(ctx context.Context, keys []string) error {
	return store.client.Delete(ctx, keys...)
}

func (store *RedisStore) Health() model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := store.client.Ping(ctx); err != nil {
		return down(err)
	}
	stats := store.client.Stats()
	return up(map[string]string{
		"driver":     "redis",
		"namespace":  store.client.GetConfig().Namespace,
		"totalConns": strconv.FormatUint(uint64(stats.TotalConns), 10),
		"idleConns":  strconv.FormatUint(uint64(stats.IdleConns), 10),
	})
}
