package state

import (
	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/model"
)

type WeatherLoading struct {
	Location       bool `json:"location"`
	CurrentWeather bool `json:"currentWeather"`
	Forecast       bool `json:"forecast"`
	Search         bool `json:"search"`
	History        bool `json:"history"`
}

type WeatherErrors struct {
	Location       *string `json:"location"`
	CurrentWeather *string `json:"currentWeather"`
	Forecast       *string `json:"forecast"`
	Search         *string `json:"search"`
	History        *string `json:"history"`
}

type WeatherState struct {
	CurrentLocation *entity.Location            `json:"currentLocation"`
	CurrentWeather  *entity.CurrentWeather      `json:"currentWeather"`
	Forecast        []entity.DailyForecast      `json:"forecast"`
	SearchResults   []model.WeatherSearchResult `json:"searchResults"`
	History         []model.WeatherHistoryItem  `json:"history"`
	IsLoading       WeatherLoading              `json:"isLoading"`
	Error           WeatherErrors               `json:"error"`
}

// CurrentWeatherResult is the payload of a fulfilled current weather fetch. City and
// Country carry the place resolved by the API, empty when it resolved none.
type CurrentWeatherResult struct {
	Weather entity.CurrentWeather
	City    string
	Country string
}

// ResetWeatherData drops weather data but keeps the current location.
type ResetWeatherData struct{}

func (ResetWeatherData) Type() string { return "weather/resetWeatherData" }

func initialWeatherState() WeatherState {
	return WeatherState{
		Forecast:      []entity.DailyForecast{},
		SearchResults: []model.WeatherSearchResult{},
		History:       []model.WeatherHistoryItem{},
	}
}

// AnyLoading reports whether location, current weather or forecast is in flight.
func (w WeatherState) AnyLoading() bool {
	return w.IsLoading.Location || w.IsLoading.CurrentWeather || w.IsLoading.Forecast
}

func reduceWeather(s WeatherState, action Action) WeatherState {
	switch a := action.(type) {
	case ResetWeatherData:
		s.CurrentWeather = nil
		s.Forecast = []entity.DailyForecast{}
		s.Error.CurrentWeather = nil
		s.Error.Forecast = nil
	case ClearAuth, SessionExpired:
		s = resetOnSignOut(s)
	case Pending:
		s = setWeatherLoading(s, a.Op, true)
	case Fulfilled:
		s = setWeatherLoading(s, a.Op, false)
		s = applyWeatherPayload(s, a)
		if a.Op == OpLogout || a.Op == OpDeleteProfile {
			s = resetOnSignOut(s)
		}
	case Rejected:
		s = setWeatherLoading(s, a.Op, false)
		s = setWeatherError(s, a.Op, errorMessage(a))
		if a.Op == OpLogout {
			s = resetOnSignOut(s)
		}
	}
	return s
}

// resetOnSignOut discards per-user data when the session ends.
func resetOnSignOut(s WeatherState) WeatherState {
	s.CurrentWeather = nil
	s.Forecast = []entity.DailyForecast{}
	s.History = []model.WeatherHistoryItem{}
	s.Error.CurrentWeather = nil
	s.Error.Forecast = nil
	return s
}

// setWeatherLoading flips the loading flag owned by op and clears its error.
func setWeatherLoading(s WeatherState, op string, loading bool) WeatherState {
	switch op {
	case OpSetLocation:
		s.IsLoading.Location = loading
		s.Error.Location = nil
	case OpFetchCurrentWeather:
		s.IsLoading.CurrentWeather = loading
		s.Error.CurrentWeather = nil
	case OpFetchForecast:
		s.IsLoading.Forecast = loading
		s.Error.Forecast = nil
	case OpSearchWeather:
		s.IsLoading.Search = loading
		s.Error.Search = nil
	case OpGetWeatherHistory:
		s.IsLoading.History = loading
		s.Error.History = nil
	}
	return s
}

func setWeatherError(s WeatherState, op string, message *string) WeatherState {
	switch op {
	case OpSetLocation:
		s.Error.Location = message
	case OpFetchCurrentWeather:
		s.Error.CurrentWeather = message
	case OpFetchForecast:
		s.Error.Forecast = message
	case OpSearchWeather:
		s.Error.Search = message
	case OpGetWeatherHistory:
		s.Error.History = message
	}
	return s
}

func applyWeatherPayload(s WeatherState, a Fulfilled) WeatherState {
	switch a.Op {
	case OpSetLocation:
		if location, ok := a.Payload.(entity.Location); ok {
			s.CurrentLocation = &location
		}
	case OpFetchCurrentWeather:
		if result, ok := a.Payload.(CurrentWeatherResult); ok {
			weather := result.Weather
			s.CurrentWeather = &weather
		}
	case OpFetchForecast:
		if forecast, ok := a.Payload.([]entity.DailyForecast); ok {
			s.Forecast = append([]entity.DailyForecast{}, forecast...)
		}
	case OpSearchWeather:
		if result, ok := a.Payload.(model.WeatherSearchResult); ok {
			s.SearchResults = []model.WeatherSearchResult{result}
		}
	case OpGetWeatherHistory:
		if history, ok := a.Payload.([]model.WeatherHistoryItem); ok {
			s.History = append([]model.WeatherHistoryItem{}, history...)
		}
	}
	return s
}
