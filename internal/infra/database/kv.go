package database

import (
	"context"
	"errors"
	"fmt"
	"io"

	"weather-client/internal/domain/gateway/storage"
	"weather-client/internal/infra/database/gorm"
	"weather-client/internal/infra/database/sqlc"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
	"weather-client/pkg/redis"
	"weather-client/pkg/resource"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverGorm   = "gorm"
	DriverSQL    = "sql"
)

// ErrUnknownDriver is returned for an unsupported app.storage.driver value
var ErrUnknownDriver = errors.New("unknown storage driver")

// OpenKeyValueStore builds the key-value store selected by app.storage.driver. The returned
// closer releases the underlying connection.
func OpenKeyValueStore(ctx context.Context, driver string) (storage.KeyValueStore, io.Closer, error) {
	var (
		store  storage.KeyValueStore
		closer io.Closer = nopCloser{}
		err    error
	)

	switch driver {
	case DriverMemory:
		store = storage.NewMemoryStore()
	case DriverFile:
		store, err = storage.NewFileStore(resource.GetString("app.storage.file.path"))
	case DriverRedis:
		var client *redis.Client
		client, err = redis.NewClient(redis.NewRedisConfig().
			WithHost(resource.GetString("app.storage.redis.host")).
			WithPort(resource.GetInt("app.storage.redis.port")).
			WithPassword(resource.GetString("app.storage.redis.password")).
			WithDatabase(resource.GetInt("app.storage.redis.database")).
			WithMaxRetries(resource.GetInt("app.storage.redis.max-retries")).
			WithReadTimeout(resource.GetDuration("app.storage.redis.read-timeout")).
			WithNamespace(resource.GetString("app.storage.redis.namespace")))
		if err == nil {
			if err = client.Ping(ctx); err != nil {
				_ = client.Close()
			} else {
				store, closer = storage.NewRedisStore(client), client
			}
		}
	case DriverGorm:
		db, openErr := gorm.Open()
		if openErr != nil {
			return nil, nil, openErr
		}
		store, err = storage.NewGormStore(db)
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			closer = sqlDB
		}
	case DriverSQL:
		db, openErr := sqlc.Open()
		if openErr != nil {
			return nil, nil, openErr
		}
		store, err = storage.NewSQLStore(ctx, db)
		closer = db
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownDriver, msg.GetMessage("storage.unknown-driver", driver))
	}

	if err != nil {
		_ = closer.Close()
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", driver, err)
	}

	log.Info(msg.GetMessage("storage.opened", driver))
	return store, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
