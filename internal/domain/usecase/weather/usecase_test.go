package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/domain/model/external"
	"weather-client/internal/state"
)

// fakeGateway implements the weather calls; anything else panics through the nil embed
type fakeGateway struct {
	api.Gateway

	mu          sync.Mutex
	queries     []api.WeatherQuery
	current     *external.WeatherData
	forecast    []external.ForecastDay
	forecastErr error
}

func (f *fakeGateway) GetCurrentWeather(_ context.Context, query api.WeatherQuery) (*external.WeatherData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.current == nil {
		return nil, &api.Error{Message: "City not found", StatusCode: 404}
	}
	data := *f.current
	return &data, nil
}

func (f *fakeGateway) GetForecast(_ context.Context, query api.WeatherQuery, _ int) ([]external.ForecastDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.forecast, f.forecastErr
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newUseCase(gateway api.Gateway) (*state.Store, *weatherUseCase) {
	store := state.NewStore(state.InitialState(false))
	uc := NewWeatherUseCase(store, gateway, 7).(*weatherUseCase)
	uc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return store, uc
}

func TestFetchCurrentWeatherWithoutLocation(t *testing.T) {
	gateway := &fakeGateway{}
	store, uc := newUseCase(gateway)

	_, err := uc.FetchCurrentWeather(context.Background())
	if err == nil || err.Error() != "Location not set" {
		t.Fatalf("error = %v, want Location not set", err)
	}

	weather := store.GetState().Weather
	if weather.Error.CurrentWeather == nil || *weather.Error.CurrentWeather != "Location not set" {
		t.Errorf("slice error = %v", weather.Error.CurrentWeather)
	}
	if weather.IsLoading.CurrentWeather {
		t.Error("loading must be cleared")
	}
	if gateway.calls() != 0 {
		t.Errorf("API called %d times, want 0", gateway.calls())
	}
}

func TestSetLocationFillsPlaceholderCity(t *testing.T) {
	store, uc := newUseCase(&fakeGateway{})

	location, err := uc.SetLocation(context.Background(), 51.5, -0.12, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location.City != "Current Location" || location.Country != "" {
		t.Errorf("location = %+v", location)
	}
	if got := store.GetState().Weather.CurrentLocation; got == nil || got.City != "Current Location" {
		t.Errorf("committed location = %+v", got)
	}
}

func TestPlaceholderLocationIsLookedUpByCoordinates(t *testing.T) {
	gateway := &fakeGateway{current: &external.WeatherData{Location: "London", Country: "GB", Temperature: 10}}
	store, uc := newUseCase(gateway)
	ctx := context.Background()

	_, _ = uc.SetLocation(ctx, 51.5, -0.12, "", "")
	result, err := uc.FetchCurrentWeather(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query := gateway.queries[0]
	if query.Lat == nil || *query.Lat != 51.5 || query.Lon == nil || *query.Lon != -0.12 {
		t.Errorf("query = %+v, want coordinates", query)
	}
	if result.City != "London" || result.Country != "GB" {
		t.Errorf("result = %+v", result)
	}
	if weather := store.GetState().Weather.CurrentWeather; weather == nil || weather.FeelsLike != 10 {
		t.Errorf("weather = %+v, feels like defaults to the temperature", weather)
	}

	_, _ = uc.SetLocation(ctx, 51.5, -0.12, "London", "GB")
	_, _ = uc.FetchCurrentWeather(ctx)
	if named := gateway.queries[1]; named.City != "London" || named.Lat != nil {
		t.Errorf("query = %+v, want city only", named)
	}
}

func TestFetchForecastFallsBackWhenEndpointMissing(t *testing.T) {
	gateway := &fakeGateway{
		current:     &external.WeatherData{Location: "Paris", Temperature: 17.4, Description: "sunny", Humidity: 40},
		forecastErr: &api.Error{Message: "Not Found", StatusCode: 404},
	}
	store, uc := newUseCase(gateway)
	ctx := context.Background()
	_, _ = uc.SetLocation(ctx, 48.85, 2.35, "Paris", "FR")

	forecast, err := uc.FetchForecast(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(forecast) != 7 {
		t.Fatalf("forecast length = %d, want 7", len(forecast))
	}
	for i, day := range forecast {
		if day.MinTemp != 12 || day.MaxTemp != 22 {
			t.Errorf("day %d band = %v..%v, want 12..22", i, day.MinTemp, day.MaxTemp)
		}
		if want := int64(1_700_000_000 + i*86400); day.Date != want {
			t.Errorf("day %d date = %d, want %d", i, day.Date, want)
		}
	}
	if got := len(store.GetState().Weather.Forecast); got != 7 {
		t.Errorf("slice forecast length = %d", got)
	}
}

func TestFetchForecastSurfacesOtherErrors(t *testing.T) {
	gateway := &fakeGateway{forecastErr: &api.Error{Message: "boom", StatusCode: 500}}
	store, uc := newUseCase(gateway)
	ctx := context.Background()
	_, _ = uc.SetLocation(ctx, 1, 1, "Lima", "PE")

	_, err := uc.FetchForecast(ctx)

	var opErr *state.OperationError
	if !errors.As(err, &opErr) || opErr.StatusCode != 500 {
		t.Fatalf("error = %v", err)
	}
	if e := store.GetState().Weather.Error.Forecast; e == nil || *e != "boom" {
		t.Errorf("slice error = %v", e)
	}
}

func TestSearchWeatherDefaultsCountry(t *testing.T) {
	gateway := &fakeGateway{current: &external.WeatherData{Location: "Atlantis", Temperature: 20}}
	store, uc := newUseCase(gateway)

	result, err := uc.SearchWeatherByLocation(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Location.Country != "Unknown" || result.WeatherData.Icon != "default" {
		t.Errorf("result = %+v", result)
	}
	if got := store.GetState().Weather.SearchResults; len(got) != 1 {
		t.Errorf("search results = %+v", got)
	}
}
