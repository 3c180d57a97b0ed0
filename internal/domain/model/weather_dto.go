package model

import "weather-client/internal/domain/entity"

// WeatherPlace is the resolved place of a weather lookup
type WeatherPlace struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Icon        string  `json:"icon"`
}

type WeatherSearchResult struct {
	Location    WeatherPlace    `json:"location"`
	WeatherData WeatherSnapshot `json:"weatherData"`
	CreatedAt   string          `json:"createdAt"`
}

type WeatherHistoryItem struct {
	ID          string          `json:"_id"`
	UserID      string          `json:"userId"`
	Query       string          `json:"query"`
	Location    WeatherPlace    `json:"location"`
	WeatherData WeatherSnapshot `json:"weatherData"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type SetLocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

type SearchDTO struct {
	Query string `json:"query" validate:"required"`
}

type ThemeDTO struct {
	Mode entity.ThemeMode `json:"mode" validate:"required,oneof=light dark system"`
}

type RefreshResponseDTO struct {
	Started bool    `json:"started"`
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
}
