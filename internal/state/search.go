package state

import "weather-client/internal/domain/entity"

// MaxSearchHistory caps the persisted search history.
const MaxSearchHistory = 10

type SearchState struct {
	SearchHistory     []entity.SearchHistoryItem `json:"searchHistory"`
	SearchResults     []entity.SearchResult      `json:"searchResults"`
	IsLoading         bool                       `json:"isLoading"`
	Error             *string                    `json:"error"`
	CurrentSearchTerm string                     `json:"currentSearchTerm"`
}

type SetSearchTerm struct{ Term string }

func (SetSearchTerm) Type() string { return "search/setSearchTerm" }

type SetSearchResults struct{ Results []entity.SearchResult }

func (SetSearchResults) Type() string { return "search/setSearchResults" }

type ClearSearchResults struct{}

func (ClearSearchResults) Type() string { return "search/clearSearchResults" }

// AddToSearchHistory records a selected result. Timestamp is stamped by the caller so the
// reducer stays pure.
type AddToSearchHistory struct {
	Result    entity.SearchResult
	Timestamp int64
}

func (AddToSearchHistory) Type() string { return "search/addToSearchHistory" }

type ClearSearchHistory struct{}

func (ClearSearchHistory) Type() string { return "search/clearSearchHistory" }

// SearchRehydration is the persisted history replayed at startup, already validated.
type SearchRehydration struct {
	SearchHistory []entity.SearchHistoryItem
}

func reduceSearch(s SearchState, action Action) SearchState {
	switch a := action.(type) {
	case SetSearchTerm:
		s.CurrentSearchTerm = a.Term
	case SetSearchResults:
		s.SearchResults = append([]entity.SearchResult(nil), a.Results...)
		s.Error = nil
	case ClearSearchResults:
		s.SearchResults = []entity.SearchResult{}
	case AddToSearchHistory:
		if a.Result.Name == "" || a.Result.Country == "" {
			return s
		}
		s.SearchHistory = pushHistory(s.SearchHistory, entity.SearchHistoryItem{
			SearchResult: a.Result,
			Timestamp:    a.Timestamp,
		})
	case ClearSearchHistory:
		s.SearchHistory = []entity.SearchHistoryItem{}
	case Rehydrate:
		if p, ok := a.Payload.(SearchRehydration); ok {
			s.SearchHistory = append([]entity.SearchHistoryItem{}, p.SearchHistory...)
		}
	case Pending:
		if a.Op == OpSearchLocations {
			s.IsLoading = true
			s.Error = nil
		}
	case Fulfilled:
		if a.Op == OpSearchLocations {
			s.IsLoading = false
			s.Error = nil
			if results, ok := a.Payload.([]entity.SearchResult); ok {
				s.SearchResults = append([]entity.SearchResult{}, results...)
			}
		}
	case Rejected:
		if a.Op == OpSearchLocations {
			s.IsLoading = false
			s.Error = errorMessage(a)
		}
	}
	return s
}

// pushHistory puts item first, drops any older entry with the same id and keeps the newest
// MaxSearchHistory entries. It always returns a fresh slice.
func pushHistory(history []entity.SearchHistoryItem, item entity.SearchHistoryItem) []entity.SearchHistoryItem {
	out := make([]entity.SearchHistoryItem, 0, MaxSearchHistory)
	out = append(out, item)
	for _, existing := range history {
		if len(out) == MaxSearchHistory {
			break
		}
		if existing.ID != item.ID {
			out = append(out, existing)
		}
	}
	return out
}

func errorMessage(a Rejected) *string {
	message := FallbackMessage(a.Op)
	if a.Err != nil && a.Err.Message != "" {
		message = a.Err.Message
	}
	return &message
}
