package weather

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/domain/model"
	"weather-client/internal/domain/model/external"
	"weather-client/internal/state"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
)

const (
	defaultIcon   = "default"
	secondsPerDay = 24 * 60 * 60
	// forecastSpread is how far synthesized minimum and maximum sit from the current temperature
	forecastSpread = 5
)

type weatherUseCase struct {
	store        *state.Store
	apiGateway   api.Gateway
	forecastDays int
	now          func() time.Time
}

func NewWeatherUseCase(store *state.Store, apiGateway api.Gateway, forecastDays int) UseCase {
	if forecastDays <= 0 {
		forecastDays = 7
	}
	return &weatherUseCase{
		store:        store,
		apiGateway:   apiGateway,
		forecastDays: forecastDays,
		now:          time.Now,
	}
}

func (uc *weatherUseCase) SetLocation(ctx context.Context, latitude, longitude float64, city, country string) (entity.Location, error) {
	arg := entity.Location{Latitude: latitude, Longitude: longitude, City: city, Country: country}
	return state.RunAsync(ctx, uc.store, state.OpSetLocation, arg, func(context.Context) (entity.Location, error) {
		location := arg
		if location.City == "" {
			location.City = msg.GetMessage("weather.placeholder-city")
		}
		return location, nil
	})
}

func (uc *weatherUseCase) FetchCurrentWeather(ctx context.Context) (state.CurrentWeatherResult, error) {
	return state.RunAsync(ctx, uc.store, state.OpFetchCurrentWeather, nil, func(ctx context.Context) (state.CurrentWeatherResult, error) {
		query, err := uc.currentQuery()
		if err != nil {
			return state.CurrentWeatherResult{}, err
		}

		data, err := uc.apiGateway.GetCurrentWeather(ctx, query)
		if err != nil {
			return state.CurrentWeatherResult{}, err
		}

		return state.CurrentWeatherResult{
			Weather: uc.toCurrentWeather(*data),
			City:    data.Location,
			Country: data.Country,
		}, nil
	})
}

func (uc *weatherUseCase) FetchForecast(ctx context.Context) ([]entity.DailyForecast, error) {
	return state.RunAsync(ctx, uc.store, state.OpFetchForecast, nil, func(ctx context.Context) ([]entity.DailyForecast, error) {
		query, err := uc.currentQuery()
		if err != nil {
			return nil, err
		}

		days, err := uc.apiGateway.GetForecast(ctx, query, uc.forecastDays)
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			log.Info("Forecast endpoint unavailable, deriving forecast from current weather",
				zap.String("city", query.City))
			return uc.synthesizeForecast(ctx, query)
		}
		if err != nil {
			return nil, err
		}

		forecast := make([]entity.DailyForecast, 0, len(days))
		for _, day := range days {
			forecast = append(forecast, entity.DailyForecast{
				Date:      day.Date,
				MinTemp:   day.MinTemp,
				MaxTemp:   day.MaxTemp,
				Condition: condition(day.Description, day.Icon),
				Humidity:  day.Humidity,
				WindSpeed: day.WindSpeed,
			})
		}
		return forecast, nil
	})
}

// synthesizeForecast spreads the current weather over the configured number of days, one
// day apart, with a fixed band around the current temperature.
func (uc *weatherUseCase) synthesizeForecast(ctx context.Context, query api.WeatherQuery) ([]entity.DailyForecast, error) {
	data, err := uc.apiGateway.GetCurrentWeather(ctx, query)
	if err != nil {
		return nil, err
	}

	start := uc.now().Unix()
	forecast := make([]entity.DailyForecast, 0, uc.forecastDays)
	for i := 0; i < uc.forecastDays; i++ {
		forecast = append(forecast, entity.DailyForecast{
			Date:      start + int64(i)*secondsPerDay,
			MinTemp:   math.Round(data.Temperature - forecastSpread),
			MaxTemp:   math.Round(data.Temperature + forecastSpread),
			Condition: condition(data.Description, data.Icon),
			Humidity:  data.Humidity,
			WindSpeed: data.WindSpeed,
		})
	}
	return forecast, nil
}

func (uc *weatherUseCase) SearchWeatherByLocation(ctx context.Context, query string) (model.WeatherSearchResult, error) {
	return state.RunAsync(ctx, uc.store, state.OpSearchWeather, query, func(ctx context.Context) (model.WeatherSearchResult, error) {
		data, err := uc.apiGateway.GetCurrentWeather(ctx, api.WeatherQuery{City: query})
		if err != nil {
			return model.WeatherSearchResult{}, err
		}
		return toSearchResult(*data), nil
	})
}

func (uc *weatherUseCase) GetWeatherHistory(ctx context.Context) ([]model.WeatherHistoryItem, error) {
	return state.RunAsync(ctx, uc.store, state.OpGetWeatherHistory, nil, func(ctx context.Context) ([]model.WeatherHistoryItem, error) {
		history, err := uc.apiGateway.GetWeatherHistory(ctx)
		if err != nil {
			return nil, err
		}
		if history == nil {
			history = []model.WeatherHistoryItem{}
		}
		return history, nil
	})
}

func (uc *weatherUseCase) ResetWeatherData() {
	uc.store.Dispatch(state.ResetWeatherData{})
}

func (uc *weatherUseCase) State() state.WeatherState {
	return uc.store.GetState().Weather
}

// currentQuery builds the lookup for the committed location. A location still carrying the
// placeholder city is looked up by coordinates.
func (uc *weatherUseCase) currentQuery() (api.WeatherQuery, error) {
	location := uc.store.GetState().Weather.CurrentLocation
	if location == nil {
		return api.WeatherQuery{}, state.Reject(msg.GetMessage("weather.error.location-not-set"), "LOCATION_NOT_SET")
	}

	query := api.WeatherQuery{City: location.City}
	if location.City == msg.GetMessage("weather.placeholder-city") {
		lat, lon := location.Latitude, location.Longitude
		query.Lat, query.Lon = &lat, &lon
	}
	return query, nil
}

func (uc *weatherUseCase) toCurrentWeather(data external.WeatherData) entity.CurrentWeather {
	feelsLike := data.Temperature
	if data.FeelsLike != nil {
		feelsLike = *data.FeelsLike
	}

	timestamp := uc.now().Unix()
	if parsed, err := time.Parse(time.RFC3339, data.Timestamp); err == nil {
		timestamp = parsed.Unix()
	}

	return entity.CurrentWeather{
		Temperature: data.Temperature,
		FeelsLike:   feelsLike,
		Humidity:    data.Humidity,
		WindSpeed:   data.WindSpeed,
		Condition:   condition(data.Description, data.Icon),
		Timestamp:   timestamp,
		Sunrise:     data.Sunrise,
		Sunset:      data.Sunset,
	}
}

func toSearchResult(data external.WeatherData) model.WeatherSearchResult {
	place := model.WeatherPlace{Name: data.Location, Country: data.Country}
	if place.Country == "" {
		place.Country = "Unknown"
	}
	if data.Lat != nil {
		place.Lat = *data.Lat
	}
	if data.Lon != nil {
		place.Lon = *data.Lon
	}

	return model.WeatherSearchResult{
		Location: place,
		WeatherData: model.WeatherSnapshot{
			Temperature: data.Temperature,
			Description: data.Description,
			Humidity:    data.Humidity,
			WindSpeed:   data.WindSpeed,
			Icon:        defaultIcon,
		},
		CreatedAt: data.Timestamp,
	}
}

func condition(description, icon string) entity.WeatherCondition {
	if icon == "" {
		icon = defaultIcon
	}
	return entity.WeatherCondition{ID: 1, Main: description, Description: description, Icon: icon}
}
