package auth

import (
	"context"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/model"
	"weather-client/internal/state"
)

type UseCase interface {
	// Register creates the account, verifies it with the returned code and logs in
	Register(ctx context.Context, dto model.RegisterDTO) (state.AuthSession, error)

	VerifyEmail(ctx context.Context, dto model.VerifyEmailDTO) (state.VerificationResult, error)

	Login(ctx context.Context, dto model.LoginDTO) (state.AuthSession, error)

	// RestoreSession loads a stored session; it returns nil when none is stored
	RestoreSession(ctx context.Context) (*state.AuthSession, error)

	LoadCurrentUser(ctx context.Context) (entity.User, error)

	// Logout always ends the local session, even when it reports an error
	Logout(ctx context.Context) error

	DeleteProfile(ctx context.Context) error

	UpdateProfile(ctx context.Context, dto model.UpdateProfileDTO) (entity.User, error)

	ResendVerification(ctx context.Context, email string) (state.VerificationResult, error)

	// RefreshSession renews the access token ahead of expiry
	RefreshSession(ctx context.Context) (state.TokenPair, error)

	ClearError()
	ClearPendingVerification()
	ClearAuth()

	Session() state.AuthState
}
