package theme

import (
	"weather-client/internal/domain/entity"
	"weather-client/internal/state"
)

// ColorSchemeProvider reports the scheme of the operating system
type ColorSchemeProvider interface {
	IsDark() bool
}

type UseCase interface {
	// SetThemeMode selects light, dark or system
	SetThemeMode(mode entity.ThemeMode) error

	// SyncSystemTheme re-reads the OS scheme; it only affects the system mode
	SyncSystemTheme()

	SystemDark() bool
	State() state.ThemeState
}
