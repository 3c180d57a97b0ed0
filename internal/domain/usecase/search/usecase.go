package search

import (
	"context"

	"weather-client/internal/domain/entity"
	"weather-client/internal/state"
)

type UseCase interface {
	SetSearchTerm(term string)
	SetSearchResults(results []entity.SearchResult)
	ClearSearchResults()

	// AddToSearchHistory moves result to the front of the history, stamped with the current time
	AddToSearchHistory(result entity.SearchResult)
	ClearSearchHistory()

	// SearchLocations records the term and resolves it to matching places
	SearchLocations(ctx context.Context, query string) ([]entity.SearchResult, error)

	State() state.SearchState
}
