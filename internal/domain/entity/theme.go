package entity

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// IsDark resolves the mode against the scheme reported by the operating system.
func (m ThemeMode) IsDark(systemDark bool) bool {
	if m == ThemeSystem {
		return systemDark
	}
	return m == ThemeDark
}
