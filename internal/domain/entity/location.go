package entity

// Location is the place weather is fetched for. City and Country hold placeholder values
// until a weather lookup resolves the place name.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}
