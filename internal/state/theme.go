package state

import "weather-client/internal/domain/entity"

// ThemeState keeps the chosen mode and its resolved darkness. Only Mode is persisted.
type ThemeState struct {
	Mode   entity.ThemeMode `json:"mode"`
	IsDark bool             `json:"isDark"`
}

// SetThemeMode selects a mode. SystemDark is the OS scheme at the time of the call.
type SetThemeMode struct {
	Mode       entity.ThemeMode
	SystemDark bool
}

func (SetThemeMode) Type() string { return "theme/setThemeMode" }

// UpdateSystemTheme reports a change of the OS color scheme.
type UpdateSystemTheme struct {
	SystemDark bool
}

func (UpdateSystemTheme) Type() string { return "theme/updateSystemTheme" }

// ThemeRehydration is the persisted theme replayed at startup.
type ThemeRehydration struct {
	Mode       entity.ThemeMode
	SystemDark bool
}

func reduceTheme(s ThemeState, action Action) ThemeState {
	switch a := action.(type) {
	case SetThemeMode:
		s.Mode = a.Mode
		s.IsDark = a.Mode.IsDark(a.SystemDark)
	case UpdateSystemTheme:
		if s.Mode == entity.ThemeSystem {
			s.IsDark = a.SystemDark
		}
	case Rehydrate:
		if p, ok := a.Payload.(ThemeRehydration); ok {
			s.Mode = p.Mode
			s.IsDark = p.Mode.IsDark(p.SystemDark)
		}
	}
	return s
}
