package auth

import (
	"strings"
	"time"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/model"
	"weather-client/internal/domain/model/external"
)

// toUser converts an API user. The API calls the follow-the-OS theme "system", the client
// calls it "auto".
func toUser(apiUser external.APIUser, now time.Time) entity.User {
	timestamp := now.UTC().Format(time.RFC3339)
	user := entity.User{
		ID:         apiUser.ID,
		Name:       strings.TrimSpace(apiUser.FirstName + " " + apiUser.LastName),
		Email:      apiUser.Email,
		IsVerified: true,
		IsAdmin:    false,
		CreatedAt:  timestamp,
		UpdatedAt:  timestamp,
	}

	if p := apiUser.Preferences; p != nil {
		theme := p.Theme
		if theme == "system" {
			theme = "auto"
		}
		user.Preferences = &entity.UserPreferences{
			TemperatureUnit: p.TemperatureUnit,
			Theme:           theme,
			Notifications: entity.Notifications{
				WeatherAlerts: p.Notifications,
				DailyForecast: p.Notifications,
			},
		}
	}
	return user
}

// splitName splits a display name into first name and the rest
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func toRegisterRequest(dto model.RegisterDTO) external.RegisterRequest {
	first, last := splitName(dto.Name)
	return external.RegisterRequest{
		FirstName: first,
		LastName:  last,
		Email:     dto.Email,
		Password:  dto.Password,
	}
}

func toProfileUpdate(dto model.UpdateProfileDTO) external.ProfileUpdateRequest {
	var update external.ProfileUpdateRequest

	if dto.Name != "" {
		first, last := splitName(dto.Name)
		update.FirstName = &first
		update.LastName = &last
	}
	if dto.Email != "" {
		email := dto.Email
		update.Email = &email
	}
	if p := dto.Preferences; p != nil {
		theme := p.Theme
		if theme == "auto" {
			theme = "system"
		}
		update.Preferences = &external.APIPreferences{
			TemperatureUnit: p.TemperatureUnit,
			Theme:           theme,
			Notifications:   p.Notifications.WeatherAlerts,
		}
	}
	return update
}
