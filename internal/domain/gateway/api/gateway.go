package api

import (
	"context"
	"fmt"

	"weather-client/internal/domain/model"
	"weather-client/internal/domain/model/external"
)

// Error is the failure of an API call. StatusCode is zero when no response was received.
type Error struct {
	Message    string `json:"message"`
	Code       string `json:"error,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return e.Message
}

func (e *Error) ErrorCode() string { return e.Code }

func (e *Error) HTTPStatus() int { return e.StatusCode }

// TokenSource gives the gateway access to the session without owning it
type TokenSource interface {
	Token() (string, bool)
	RefreshToken() (string, bool)
	// SetToken stores a new access token; an empty refreshToken keeps the current one
	SetToken(token, refreshToken string)
	ClearToken()
	// Expire ends the session after a refresh failed
	Expire()
}

// WeatherQuery selects a place by city name, or by coordinates when Lat and Lon are set
type WeatherQuery struct {
	City string
	Lat  *float64
	Lon  *float64
}

// Gateway defines the weather API surface the client uses
type Gateway interface {
	// Login exchanges credentials for a session
	Login(ctx context.Context, credentials external.AuthCredentials) (*external.AuthResponse, error)

	// Register creates an account and returns its verification code
	Register(ctx context.Context, request external.RegisterRequest) (*external.RegisterResponse, error)

	VerifyEmail(ctx context.Context, request external.VerifyEmailRequest) (*external.MessageResponse, error)

	// Refresh renews the access token with the stored refresh token
	Refresh(ctx context.Context) (*external.RefreshResponse, error)

	Logout(ctx context.Context) error

	GetCurrentWeather(ctx context.Context, query WeatherQuery) (*external.WeatherData, error)

	// GetForecast returns up to days daily entries
	GetForecast(ctx context.Context, query WeatherQuery, days int) ([]external.ForecastDay, error)

	GetWeatherHistory(ctx context.Context) ([]model.WeatherHistoryItem, error)

	GetUserProfile(ctx context.Context) (*external.APIUser, error)
	UpdateUserProfile(ctx context.Context, updates external.ProfileUpdateRequest) (*external.APIUser, error)
	DeleteUserProfile(ctx context.Context) (*external.MessageResponse, error)

	HealthCheck(ctx context.Context) (*external.HealthResponse, error)

	SetToken(token string)
	ClearToken()
	GetToken() (string, bool)
	IsAuthenticated() bool
}
