package theme

import (
	"fmt"
	"strings"
	"sync/atomic"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/validation"
	"weather-client/internal/state"
)

type themeUseCase struct {
	store  *state.Store
	scheme ColorSchemeProvider
}

func NewThemeUseCase(store *state.Store, scheme ColorSchemeProvider) UseCase {
	return &themeUseCase{store: store, scheme: scheme}
}

func (uc *themeUseCase) SetThemeMode(mode entity.ThemeMode) error {
	parsed, ok := validation.ParseThemeMode(string(mode))
	if !ok {
		return fmt.Errorf("unknown theme mode %q", mode)
	}
	uc.store.Dispatch(state.SetThemeMode{Mode: parsed, SystemDark: uc.scheme.IsDark()})
	return nil
}

func (uc *themeUseCase) SyncSystemTheme() {
	uc.store.Dispatch(state.UpdateSystemTheme{SystemDark: uc.scheme.IsDark()})
}

func (uc *themeUseCase) SystemDark() bool {
	return uc.scheme.IsDark()
}

func (uc *themeUseCase) State() state.ThemeState {
	return uc.store.GetState().Theme
}

// StaticColorScheme is a ColorSchemeProvider whose scheme is set from configuration or by
// the control surface.
type StaticColorScheme struct {
	dark atomic.Bool
}

func NewStaticColorScheme(scheme string) *StaticColorScheme {
	s := &StaticColorScheme{}
	s.Set(scheme)
	return s
}

// Set accepts "dark"; anything else is light
func (s *StaticColorScheme) Set(scheme string) {
	s.dark.Store(strings.EqualFold(strings.TrimSpace(scheme), "dark"))
}

func (s *StaticColorScheme) IsDark() bool {
	return s.dark.Load()
}
