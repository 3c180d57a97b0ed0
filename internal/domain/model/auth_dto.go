package model

import "weather-client/internal/domain/entity"

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterDTO struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyEmailDTO struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type ResendVerificationDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileDTO is a partial user: empty fields are left untouched
type UpdateProfileDTO struct {
	Name        string                  `json:"name,omitempty"`
	Email       string                  `json:"email,omitempty" validate:"omitempty,email"`
	Preferences *entity.UserPreferences `json:"preferences,omitempty"`
}
