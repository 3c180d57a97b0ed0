package api

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"weather-client/internal/domain/model/external"
	"weather-client/pkg/http"
)

type fakeTokens struct {
	mu           sync.Mutex
	token        string
	refreshToken string
	expired      bool
}

func (f *fakeTokens) Token() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeTokens) RefreshToken() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshToken, f.refreshToken != ""
}

func (f *fakeTokens) SetToken(token, refreshToken string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	if refreshToken != "" {
		f.refreshToken = refreshToken
	}
}

func (f *fakeTokens) ClearToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.refreshToken = "", ""
}

func (f *fakeTokens) Expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.refreshToken = "", ""
	f.expired = true
}

func writeJSON(w nethttp.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func currentWeatherBody() map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"location":    "London",
			"temperature": 12.5,
			"description": "cloudy",
			"humidity":    80,
			"windSpeed":   3.2,
			"timestamp":   "2024-01-01T00:00:00Z",
		},
	}
}

func TestUnauthorizedTriggersRefreshAndRetry(t *testing.T) {
	var refreshes atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case refreshPath:
			refreshes.Add(1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refreshToken"] != "rtok" {
				writeJSON(w, 401, map[string]any{"error": "INVALID_REFRESH", "message": "bad refresh token"})
				return
			}
			writeJSON(w, 200, map[string]any{"token": "fresh"})
		case currentPath:
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, 401, map[string]any{"error": "TOKEN_EXPIRED", "message": "expired"})
				return
			}
			writeJSON(w, 200, currentWeatherBody())
		default:
			w.WriteHeader(404)
		}
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "stale", refreshToken: "rtok"}
	gateway := NewGateway(server.URL, http.ClientOptions{}, tokens)

	data, err := gateway.GetCurrentWeather(context.Background(), WeatherQuery{City: "London"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Location != "London" || data.Temperature != 12.5 {
		t.Errorf("data = %+v", data)
	}
	if refreshes.Load() != 1 {
		t.Errorf("refresh called %d times, want 1", refreshes.Load())
	}
	if token, _ := gateway.GetToken(); token != "fresh" {
		t.Errorf("token = %q, want fresh", token)
	}
	if refreshToken, _ := tokens.RefreshToken(); refreshToken != "rtok" {
		t.Errorf("refresh token = %q, an empty refresh response keeps the current one", refreshToken)
	}
}

func TestFailedRefreshExpiresSession(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, 401, map[string]any{"error": "UNAUTHORIZED", "message": "no"})
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "stale", refreshToken: "rtok"}
	gateway := NewGateway(server.URL, http.ClientOptions{}, tokens)

	_, err := gateway.GetWeatherHistory(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("error = %v, want a 401 Error", err)
	}
	if !tokens.expired {
		t.Error("session must be expired when the refresh fails")
	}
	if gateway.IsAuthenticated() {
		t.Error("gateway must not report a session after expiry")
	}
}

func TestUnauthenticatedCallIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		writeJSON(w, 401, map[string]any{"error": "INVALID_CREDENTIALS", "message": "Invalid email or password"})
	}))
	defer server.Close()

	tokens := &fakeTokens{}
	gateway := NewGateway(server.URL, http.ClientOptions{}, tokens)

	_, err := gateway.Login(context.Background(), external.AuthCredentials{Email: "a@b.com", Password: "wrong-password"})

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want Error", err)
	}
	if apiErr.Message != "Invalid email or password" || apiErr.Code != "INVALID_CREDENTIALS" {
		t.Errorf("error = %+v", apiErr)
	}
	if calls.Load() != 1 || tokens.expired {
		t.Errorf("login must not refresh: calls=%d expired=%v", calls.Load(), tokens.expired)
	}
}

func TestRegisterIsSentOnceOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(502)
			return
		}
		writeJSON(w, 409, map[string]any{"error": "CONFLICT", "message": "User already exists"})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, http.ClientOptions{Backoff: http.NewBackoffConfig(3, time.Millisecond)}, &fakeTokens{})
	_, err := gateway.Register(context.Background(), external.RegisterRequest{
		FirstName: "Ana", LastName: "Lima", Email: "ana@example.com", Password: "secret123",
	})

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 502 {
		t.Fatalf("error = %v, want the 502 from the only attempt", err)
	}
	if calls.Load() != 1 {
		t.Errorf("register calls = %d, want 1", calls.Load())
	}
}

func TestErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(503)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, http.ClientOptions{}, &fakeTokens{})
	_, err := gateway.HealthCheck(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "HTTP 503" || apiErr.StatusCode != 503 {
		t.Errorf("error = %v", err)
	}
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	server := httptest.NewServer(nethttp.NotFoundHandler())
	url := server.URL
	server.Close()

	gateway := NewGateway(url, http.ClientOptions{}, &fakeTokens{})
	_, err := gateway.HealthCheck(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Code != "NETWORK_ERROR" || apiErr.StatusCode != 0 {
		t.Errorf("error = %v", err)
	}
}

func TestCoordinatesAreSentWhenSet(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		query = map[string]string{
			"city": r.URL.Query().Get("city"),
			"lat":  r.URL.Query().Get("lat"),
			"lon":  r.URL.Query().Get("lon"),
			"days": r.URL.Query().Get("days"),
		}
		writeJSON(w, 200, map[string]any{"success": true, "data": []any{}})
	}))
	defer server.Close()

	lat, lon := 40.7128, -74.006
	gateway := NewGateway(server.URL, http.ClientOptions{}, &fakeTokens{token: "tok"})
	if _, err := gateway.GetForecast(context.Background(), WeatherQuery{City: "Current Location", Lat: &lat, Lon: &lon}, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if query["lat"] != "40.7128" || query["lon"] != "-74.006" || query["days"] != "7" {
		t.Errorf("query = %v", query)
	}
}
