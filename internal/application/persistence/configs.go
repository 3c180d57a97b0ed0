package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/validation"
	"weather-client/internal/state"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
)

const (
	ThemeKey  = "persist:theme"
	SearchKey = "persist:search"
)

type themeRecord struct {
	Mode entity.ThemeMode `json:"mode"`
}

type searchRecord struct {
	SearchHistory []entity.SearchHistoryItem `json:"searchHistory"`
}

// ThemeConfig persists only the theme mode. systemDark is read at rehydration so the
// derived flag matches the OS at load time.
func ThemeConfig(systemDark func() bool) Config {
	return Config{
		Key: ThemeKey,
		Select: func(s state.State) any {
			return themeRecord{Mode: s.Theme.Mode}
		},
		Rehydrate: func(raw []byte) (state.Action, error) {
			var document map[string]any
			if err := json.Unmarshal(raw, &document); err != nil {
				return nil, fmt.Errorf("decode theme: %w", err)
			}
			mode, ok := validation.ParseThemeMode(document["mode"])
			if !ok {
				return nil, fmt.Errorf("invalid theme mode %v", document["mode"])
			}
			return state.Rehydrate{
				Key:     ThemeKey,
				Payload: state.ThemeRehydration{Mode: mode, SystemDark: systemDark()},
			}, nil
		},
	}
}

// SearchConfig persists only the search history. Items that fail validation are dropped
// one by one.
func SearchConfig() Config {
	return Config{
		Key: SearchKey,
		Select: func(s state.State) any {
			return searchRecord{SearchHistory: s.Search.SearchHistory}
		},
		Rehydrate: func(raw []byte) (state.Action, error) {
			var document map[string]any
			if err := json.Unmarshal(raw, &document); err != nil {
				return nil, fmt.Errorf("decode search: %w", err)
			}
			candidates, ok := document["searchHistory"].([]any)
			if !ok {
				return nil, errors.New("searchHistory is not a list")
			}

			history := make([]entity.SearchHistoryItem, 0, len(candidates))
			for i, candidate := range candidates {
				result := validation.ParseHistoryItem(candidate)
				if result.Invalid() {
					log.Warnw(msg.GetMessage("persistence.invalid-item"),
						"index", i, "reason", result.Reason, "item", candidate)
					continue
				}
				history = append(history, *result.Item)
			}

			return state.Rehydrate{Key: SearchKey, Payload: state.SearchRehydration{SearchHistory: history}}, nil
		},
	}
}
