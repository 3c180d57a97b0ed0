package model

import "weather-client/internal/domain/entity"

// SearchResultDTO is a place picked by the user for the search history
type SearchResultDTO struct {
	ID      string  `json:"id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Country string  `json:"country" validate:"required"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (dto SearchResultDTO) ToEntity() entity.SearchResult {
	return entity.SearchResult{
		ID:      dto.ID,
		Name:    dto.Name,
		Country: dto.Country,
		State:   dto.State,
		Lat:     dto.Lat,
		Lon:     dto.Lon,
	}
}

type SearchTermDTO struct {
	Term string `json:"term"`
}

type SystemSchemeDTO struct {
	Scheme string `json:"scheme" validate:"required,oneof=light dark"`
}

// SessionView is the auth state without its tokens
type SessionView struct {
	User                *entity.User      `json:"user"`
	IsAuthenticated     bool              `json:"isAuthenticated"`
	IsLoading           bool              `json:"isLoading"`
	Error               *entity.AuthError `json:"error"`
	PendingVerification *string           `json:"pendingVerification"`
}
