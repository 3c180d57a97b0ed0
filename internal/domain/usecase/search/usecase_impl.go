package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/state"
)

type searchUseCase struct {
	store      *state.Store
	apiGateway api.Gateway
	now        func() time.Time
}

func NewSearchUseCase(store *state.Store, apiGateway api.Gateway) UseCase {
	return &searchUseCase{store: store, apiGateway: apiGateway, now: time.Now}
}

// NewSearchUseCaseWithClock is NewSearchUseCase with an explicit clock for history stamps
func NewSearchUseCaseWithClock(store *state.Store, apiGateway api.Gateway, now func() time.Time) UseCase {
	return &searchUseCase{store: store, apiGateway: apiGateway, now: now}
}

func (uc *searchUseCase) SetSearchTerm(term string) {
	uc.store.Dispatch(state.SetSearchTerm{Term: term})
}

func (uc *searchUseCase) SetSearchResults(results []entity.SearchResult) {
	uc.store.Dispatch(state.SetSearchResults{Results: results})
}

func (uc *searchUseCase) ClearSearchResults() {
	uc.store.Dispatch(state.ClearSearchResults{})
}

func (uc *searchUseCase) AddToSearchHistory(result entity.SearchResult) {
	uc.store.Dispatch(state.AddToSearchHistory{Result: result, Timestamp: uc.now().Unix()})
}

func (uc *searchUseCase) ClearSearchHistory() {
	uc.store.Dispatch(state.ClearSearchHistory{})
}

func (uc *searchUseCase) SearchLocations(ctx context.Context, query string) ([]entity.SearchResult, error) {
	query = strings.TrimSpace(query)
	uc.SetSearchTerm(query)

	return state.RunAsync(ctx, uc.store, state.OpSearchLocations, query, func(ctx context.Context) ([]entity.SearchResult, error) {
		if query == "" {
			return []entity.SearchResult{}, nil
		}

		data, err := uc.apiGateway.GetCurrentWeather(ctx, api.WeatherQuery{City: query})
		if err != nil {
			return nil, err
		}

		result := entity.SearchResult{Name: data.Location, Country: data.Country}
		if data.Lat != nil && data.Lon != nil {
			result.Lat, result.Lon = *data.Lat, *data.Lon
			result.ID = fmt.Sprintf("%.4f,%.4f", result.Lat, result.Lon)
		} else {
			result.ID = strings.ToLower(data.Location + "-" + data.Country)
		}
		return []entity.SearchResult{result}, nil
	})
}

func (uc *searchUseCase) State() state.SearchState {
	return uc.store.GetState().Search
}
