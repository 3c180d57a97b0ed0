package weather

import (
	"context"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/model"
	"weather-client/internal/state"
)

type UseCase interface {
	// SetLocation commits a location. Empty city and country fall back to placeholders.
	SetLocation(ctx context.Context, latitude, longitude float64, city, country string) (entity.Location, error)

	// FetchCurrentWeather loads weather for the current location. It fails without a call
	// when no location is set.
	FetchCurrentWeather(ctx context.Context) (state.CurrentWeatherResult, error)

	// FetchForecast loads the daily forecast for the current location
	FetchForecast(ctx context.Context) ([]entity.DailyForecast, error)

	SearchWeatherByLocation(ctx context.Context, query string) (model.WeatherSearchResult, error)

	GetWeatherHistory(ctx context.Context) ([]model.WeatherHistoryItem, error)

	// ResetWeatherData drops weather and forecast but keeps the location
	ResetWeatherData()

	State() state.WeatherState
}
