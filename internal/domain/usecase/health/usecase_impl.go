package health

import (
	"context"
	"time"

	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/domain/gateway/storage"
	"weather-client/internal/domain/model"
)

type healthUseCase struct {
	storage    storage.KeyValueStore
	apiGateway api.Gateway
}

func NewHealthUseCase(storage storage.KeyValueStore, apiGateway api.Gateway) UseCase {
	return &healthUseCase{
		storage:    storage,
		apiGateway: apiGateway,
	}
}

// CheckHealth is UP only when storage and the remote API both are
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	storageHealth := useCase.storage.Health()
	apiHealth := useCase.checkAPI(ctx)

	overallStatus := model.StatusUp
	if storageHealth.Status != model.StatusUp || apiHealth.Status != model.StatusUp {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:  overallStatus,
		Storage: storageHealth,
		API:     apiHealth,
	}
}

func (useCase *healthUseCase) checkAPI(ctx context.Context) model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	response, err := useCase.apiGateway.HealthCheck(ctx)
	if err != nil {
		return model.ComponentHealthStatus{
			Status: model.StatusDown,
			Details: map[string]string{
				"message": err.Error(),
			},
		}
	}

	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"message":   response.Status,
			"timestamp": response.Timestamp,
		},
	}
}
