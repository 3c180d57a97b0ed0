package validation

import "weather-client/internal/domain/entity"

// ParseThemeMode admits only the three known modes.
func ParseThemeMode(candidate any) (entity.ThemeMode, bool) {
	value, ok := candidate.(string)
	if !ok {
		return "", false
	}
	switch mode := entity.ThemeMode(value); mode {
	case entity.ThemeLight, entity.ThemeDark, entity.ThemeSystem:
		return mode, true
	}
	return "", false
}
