package external

// APIErrorResponse is the error body returned by the weather API
type APIErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// DataResponse wraps payloads the API returns inside a data envelope
type DataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// MessageResponse is returned by endpoints that only acknowledge the call
type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}

type AuthCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type RegisterResponse struct {
	Message          string `json:"message"`
	UserID           string `json:"userId"`
	VerificationCode string `json:"verificationCode"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// APIPreferences.Theme is one of light, dark or system
type APIPreferences struct {
	TemperatureUnit string `json:"temperatureUnit"`
	Theme           string `json:"theme"`
	Notifications   bool   `json:"notifications"`
}

type APIUser struct {
	ID          string          `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Preferences *APIPreferences `json:"preferences,omitempty"`
}

type AuthResponse struct {
	Message      string  `json:"message,omitempty"`
	User         APIUser `json:"user"`
	Token        string  `json:"token"`
	RefreshToken string  `json:"refreshToken,omitempty"`
}

// ProfileUpdateRequest carries only the fields being changed
type ProfileUpdateRequest struct {
	FirstName   *string         `json:"firstName,omitempty"`
	LastName    *string         `json:"lastName,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Preferences *APIPreferences `json:"preferences,omitempty"`
}

// WeatherData is the current weather payload. Timestamp is an ISO-8601 string.
type WeatherData struct {
	Location    string   `json:"location"`
	Temperature float64  `json:"temperature"`
	FeelsLike   *float64 `json:"feelsLike,omitempty"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	Humidity    int      `json:"humidity"`
	WindSpeed   float64  `json:"windSpeed"`
	Timestamp   string   `json:"timestamp"`
	Country     string   `json:"country,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	Sunrise     *int64   `json:"sunrise,omitempty"`
	Sunset      *int64   `json:"sunset,omitempty"`
}

// ForecastDay is one day of the forecast endpoint. Date is epoch seconds.
type ForecastDay struct {
	Date        int64   `json:"date"`
	MinTemp     float64 `json:"minTemp"`
	MaxTemp     float64 `json:"maxTemp"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
