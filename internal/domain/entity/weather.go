package entity

type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather timestamps are epoch seconds.
type CurrentWeather struct {
	Temperature float64          `json:"temperature"`
	FeelsLike   float64          `json:"feelsLike"`
	Humidity    int              `json:"humidity"`
	WindSpeed   float64          `json:"windSpeed"`
	Condition   WeatherCondition `json:"condition"`
	Timestamp   int64            `json:"timestamp"`
	Sunrise     *int64           `json:"sunrise,omitempty"`
	Sunset      *int64           `json:"sunset,omitempty"`
}

type DailyForecast struct {
	Date      int64            `json:"date"`
	MinTemp   float64          `json:"minTemp"`
	MaxTemp   float64          `json:"maxTemp"`
	Condition WeatherCondition `json:"condition"`
	Humidity  int              `json:"humidity"`
	WindSpeed float64          `json:"windSpeed"`
}
