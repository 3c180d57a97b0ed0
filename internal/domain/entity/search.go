package entity

type SearchResult struct {
	ID      string  `json:"id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Country string  `json:"country" validate:"required"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// SearchHistoryItem is a SearchResult stamped with the epoch second it was last selected.
type SearchHistoryItem struct {
	SearchResult
	Timestamp int64 `json:"timestamp"`
}
