package entity

type User struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	IsVerified  bool             `json:"isVerified"`
	IsAdmin     bool             `json:"isAdmin"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   string           `json:"updatedAt"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
}

// UserPreferences.Theme is one of light, dark or auto.
type UserPreferences struct {
	TemperatureUnit string        `json:"temperatureUnit"`
	Theme           string        `json:"theme"`
	Notifications   Notifications `json:"notifications"`
}

type Notifications struct {
	WeatherAlerts bool `json:"weatherAlerts"`
	DailyForecast bool `json:"dailyForecast"`
}

type AuthError struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode,omitempty"`
}
