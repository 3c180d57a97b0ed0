package storage

import (
	"context"

	"weather-client/internal/domain/model"
)

// KeyValueStore is the string keyed storage persisted state lives in. A missing key is not
// an error: Get reports it with found == false.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	MultiRemove(ctx context.Context, keys []string) error

	// Health reports whether the backing store is reachable
	Health() model.ComponentHealthStatus
}

func up(details map[string]string) model.ComponentHealthStatus {
	if details == nil {
		details = map[string]string{}
	}
	details["message"] = string(model.StatusUp)
	return model.ComponentHealthStatus{Status: model.StatusUp, Details: details}
}

func down(err error) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusDown,
		Details: map[string]string{
			"message": err.Error(),
		},
	}
}
