package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/domain/model"
	"weather-client/internal/domain/model/external"
	"weather-client/internal/state"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
)

type authUseCase struct {
	store    *state.Store
	gateway  api.Gateway
	session  *SessionTokenSource
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthUseCase(store *state.Store, gateway api.Gateway, session *SessionTokenSource) UseCase {
	return &authUseCase{
		store:    store,
		gateway:  gateway,
		session:  session,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (uc *authUseCase) Register(ctx context.Context, dto model.RegisterDTO) (state.AuthSession, error) {
	return state.RunAsync(ctx, uc.store, state.OpRegister, dto.Email, func(ctx context.Context) (state.AuthSession, error) {
		if err := uc.check(dto); err != nil {
			return state.AuthSession{}, err
		}

		registered, err := uc.gateway.Register(ctx, toRegisterRequest(dto))
		if err != nil {
			return state.AuthSession{}, err
		}

		if _, err = uc.gateway.VerifyEmail(ctx, external.VerifyEmailRequest{Email: dto.Email, Token: registered.VerificationCode}); err != nil {
			return state.AuthSession{}, fmt.Errorf("verify registered email: %w", err)
		}

		return uc.signIn(ctx, dto.Email, dto.Password)
	})
}

func (uc *authUseCase) VerifyEmail(ctx context.Context, dto model.VerifyEmailDTO) (state.VerificationResult, error) {
	return state.RunAsync(ctx, uc.store, state.OpVerifyEmail, dto.Email, func(ctx context.Context) (state.VerificationResult, error) {
		if err := uc.check(dto); err != nil {
			return state.VerificationResult{}, err
		}

		response, err := uc.gateway.VerifyEmail(ctx, external.VerifyEmailRequest{Email: dto.Email, Token: dto.Code})
		if err != nil {
			return state.VerificationResult{}, err
		}

		message := response.Message
		if message == "" {
			message = msg.GetMessage("auth.verified")
		}
		return state.VerificationResult{Success: true, Message: message}, nil
	})
}

func (uc *authUseCase) Login(ctx context.Context, dto model.LoginDTO) (state.AuthSession, error) {
	return state.RunAsync(ctx, uc.store, state.OpLogin, dto.Email, func(ctx context.Context) (state.AuthSession, error) {
		if err := uc.check(dto); err != nil {
			return state.AuthSession{}, err
		}
		return uc.signIn(ctx, dto.Email, dto.Password)
	})
}

// signIn logs in and stores the session before the fulfilled transition commits it
func (uc *authUseCase) signIn(ctx context.Context, email, password string) (state.AuthSession, error) {
	response, err := uc.gateway.Login(ctx, external.AuthCredentials{Email: email, Password: password})
	if err != nil {
		return state.AuthSession{}, err
	}

	if err := uc.session.save(ctx, response.Token, response.RefreshToken, response.User); err != nil {
		log.Error(msg.GetMessage("persistence.write-failed", "session"), zap.Error(err))
	}

	return state.AuthSession{
		User:         toUser(response.User, uc.now()),
		Token:        response.Token,
		RefreshToken: response.RefreshToken,
	}, nil
}

func (uc *authUseCase) RestoreSession(ctx context.Context) (*state.AuthSession, error) {
	return state.RunAsync(ctx, uc.store, state.OpRestoreSession, nil, func(ctx context.Context) (*state.AuthSession, error) {
		token, refreshToken, user, err := uc.session.load(ctx)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, nil
		}
		return &state.AuthSession{User: toUser(*user, uc.now()), Token: token, RefreshToken: refreshToken}, nil
	})
}

func (uc *authUseCase) LoadCurrentUser(ctx context.Context) (entity.User, error) {
	return state.RunAsync(ctx, uc.store, state.OpLoadCurrentUser, nil, func(ctx context.Context) (entity.User, error) {
		if !uc.gateway.IsAuthenticated() {
			return entity.User{}, state.Reject(msg.GetMessage("auth.error.not-authenticated"), "NOT_AUTHENTICATED")
		}

		stored, err := uc.session.loadUser(ctx)
		if err != nil {
			log.Warn("Failed to read stored user, fetching profile", zap.Error(err))
		}
		if stored != nil {
			return toUser(*stored, uc.now()), nil
		}

		profile, err := uc.gateway.GetUserProfile(ctx)
		if err != nil {
			return entity.User{}, err
		}
		return toUser(*profile, uc.now()), nil
	})
}

func (uc *authUseCase) Logout(ctx context.Context) error {
	_, err := state.RunAsync(ctx, uc.store, state.OpLogout, nil, func(ctx context.Context) (struct{}, error) {
		serverErr := uc.gateway.Logout(ctx)
		var apiErr *api.Error
		if errors.As(serverErr, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusUnauthorized) {
			// server-side logout is optional, the session is already unusable
			serverErr = nil
		}

		storageErr := uc.session.kv.MultiRemove(ctx, SessionKeys)
		if storageErr != nil {
			log.Error(msg.GetMessage("persistence.write-failed", "session"), zap.Error(storageErr))
		}
		return struct{}{}, errors.Join(serverErr, storageErr)
	})
	return err
}

func (uc *authUseCase) DeleteProfile(ctx context.Context) error {
	_, err := state.RunAsync(ctx, uc.store, state.OpDeleteProfile, nil, func(ctx context.Context) (struct{}, error) {
		if _, err := uc.gateway.DeleteUserProfile(ctx); err != nil {
			return struct{}{}, err
		}
		if err := uc.session.kv.MultiRemove(ctx, SessionKeys); err != nil {
			log.Error(msg.GetMessage("persistence.write-failed", "session"), zap.Error(err))
		}
		return struct{}{}, nil
	})
	return err
}

func (uc *authUseCase) UpdateProfile(ctx context.Context, dto model.UpdateProfileDTO) (entity.User, error) {
	return state.RunAsync(ctx, uc.store, state.OpUpdateProfile, nil, func(ctx context.Context) (entity.User, error) {
		if err := uc.check(dto); err != nil {
			return entity.User{}, err
		}

		updated, err := uc.gateway.UpdateUserProfile(ctx, toProfileUpdate(dto))
		if err != nil {
			return entity.User{}, err
		}
		if err := uc.session.saveUser(ctx, *updated); err != nil {
			log.Error(msg.GetMessage("persistence.write-failed", UserKey), zap.Error(err))
		}
		return toUser(*updated, uc.now()), nil
	})
}

// ResendVerification succeeds without a call: accounts are verified during registration.
func (uc *authUseCase) ResendVerification(ctx context.Context, email string) (state.VerificationResult, error) {
	return state.RunAsync(ctx, uc.store, state.OpResendVerification, email, func(context.Context) (state.VerificationResult, error) {
		return state.VerificationResult{Success: true, Message: msg.GetMessage("auth.verification-not-required")}, nil
	})
}

func (uc *authUseCase) RefreshSession(ctx context.Context) (state.TokenPair, error) {
	return state.RunAsync(ctx, uc.store, state.OpRefreshSession, nil, func(ctx context.Context) (state.TokenPair, error) {
		response, err := uc.gateway.Refresh(ctx)
		if err != nil {
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
				uc.session.Expire()
				return state.TokenPair{}, &state.OperationError{
					Message:    msg.GetMessage("auth.error.session-expired"),
					Code:       state.SessionExpiredCode,
					StatusCode: http.StatusUnauthorized,
				}
			}
			return state.TokenPair{}, err
		}
		return state.TokenPair{Token: response.Token, RefreshToken: response.RefreshToken}, nil
	})
}

func (uc *authUseCase) ClearError() {
	uc.store.Dispatch(state.ClearAuthError{})
}

func (uc *authUseCase) ClearPendingVerification() {
	uc.store.Dispatch(state.ClearPendingVerification{})
}

func (uc *authUseCase) ClearAuth() {
	uc.session.ClearToken()
}

func (uc *authUseCase) Session() state.AuthState {
	return uc.store.GetState().Auth
}

// check validates a request DTO before any call is made
func (uc *authUseCase) check(dto any) error {
	err := uc.validate.Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return state.Reject(msg.GetMessage("auth.error.invalid-input", err), "VALIDATION_ERROR")
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return state.Reject(msg.GetMessage("auth.error.invalid-input", strings.Join(problems, ", ")), "VALIDATION_ERROR")
}
