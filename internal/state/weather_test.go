package state

import (
	"testing"

	"weather-client/internal/domain/entity"
)

func fulfill(store *Store, op string, payload any) {
	store.Dispatch(Pending{Op: op, RequestID: "r"})
	store.Dispatch(Fulfilled{Op: op, RequestID: "r", Payload: payload})
}

func TestResetWeatherDataKeepsLocation(t *testing.T) {
	store := NewStore(InitialState(false))
	fulfill(store, OpSetLocation, entity.Location{Latitude: 1, Longitude: 2, City: "Lisbon", Country: "PT"})
	fulfill(store, OpFetchCurrentWeather, CurrentWeatherResult{Weather: entity.CurrentWeather{Temperature: 20}})
	fulfill(store, OpFetchForecast, []entity.DailyForecast{{Date: 1}, {Date: 2}})

	store.Dispatch(ResetWeatherData{})

	weather := store.GetState().Weather
	if weather.CurrentLocation == nil || weather.CurrentLocation.City != "Lisbon" {
		t.Errorf("location = %+v, want Lisbon kept", weather.CurrentLocation)
	}
	if weather.CurrentWeather != nil {
		t.Error("current weather must be cleared")
	}
	if weather.Forecast == nil || len(weather.Forecast) != 0 {
		t.Errorf("forecast = %v, want empty", weather.Forecast)
	}
}

func TestPendingClearsStaleError(t *testing.T) {
	store := NewStore(InitialState(false))
	store.Dispatch(Pending{Op: OpFetchForecast})
	store.Dispatch(Rejected{Op: OpFetchForecast, Err: &OperationError{Message: "down"}})

	if e := store.GetState().Weather.Error.Forecast; e == nil || *e != "down" {
		t.Fatalf("error = %v, want down", e)
	}

	store.Dispatch(Pending{Op: OpFetchForecast})
	weather := store.GetState().Weather
	if weather.Error.Forecast != nil {
		t.Error("pending must clear the previous error")
	}
	if !weather.AnyLoading() {
		t.Error("AnyLoading must report the forecast in flight")
	}
}

func TestSessionExpiredDropsUserWeather(t *testing.T) {
	store := NewStore(InitialState(false))
	fulfill(store, OpSetLocation, entity.Location{City: "Lisbon"})
	fulfill(store, OpFetchCurrentWeather, CurrentWeatherResult{Weather: entity.CurrentWeather{Temperature: 20}})

	store.Dispatch(SessionExpired{Message: "expired"})

	weather := store.GetState().Weather
	if weather.CurrentWeather != nil {
		t.Error("weather must be cleared when the session expires")
	}
	if weather.CurrentLocation == nil {
		t.Error("location is not user data and must survive")
	}
}
