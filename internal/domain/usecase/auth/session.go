package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/domain/gateway/storage"
	"weather-client/internal/domain/model/external"
	"weather-client/internal/state"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
)

const (
	TokenKey        = "auth_token"
	RefreshTokenKey = "refresh_token"
	UserKey         = "user_data"
)

// SessionKeys are removed together whenever the session ends
var SessionKeys = []string{TokenKey, RefreshTokenKey, UserKey}

const storageTimeout = 5 * time.Second

// SessionTokenSource serves the auth slice's token to the API gateway and mirrors session
// changes into the key-value store.
type SessionTokenSource struct {
	store *state.Store
	kv    storage.KeyValueStore
}

var _ api.TokenSource = (*SessionTokenSource)(nil)

func NewSessionTokenSource(store *state.Store, kv storage.KeyValueStore) *SessionTokenSource {
	return &SessionTokenSource{store: store, kv: kv}
}

func (s *SessionTokenSource) Token() (string, bool) {
	token := s.store.GetState().Auth.Token
	if token == nil || *token == "" {
		return "", false
	}
	return *token, true
}

func (s *SessionTokenSource) RefreshToken() (string, bool) {
	token := s.store.GetState().Auth.RefreshToken
	if token == nil || *token == "" {
		return "", false
	}
	return *token, true
}

func (s *SessionTokenSource) SetToken(token, refreshToken string) {
	s.store.Dispatch(state.SetToken{Token: token, RefreshToken: refreshToken})

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	s.logFailure(TokenKey, s.kv.Set(ctx, TokenKey, token))
	if refreshToken != "" {
		s.logFailure(RefreshTokenKey, s.kv.Set(ctx, RefreshTokenKey, refreshToken))
	}
}

func (s *SessionTokenSource) ClearToken() {
	s.store.Dispatch(state.ClearAuth{})
	s.logFailure("session", s.forget())
}

func (s *SessionTokenSource) Expire() {
	s.store.Dispatch(state.SessionExpired{Message: msg.GetMessage("auth.error.session-expired")})
	s.logFailure("session", s.forget())
}

// save persists a fresh session. The user is stored in its API shape so a restore goes
// through the same transform as a login.
func (s *SessionTokenSource) save(ctx context.Context, token, refreshToken string, user external.APIUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := s.kv.Set(ctx, RefreshTokenKey, refreshToken); err != nil {
			return err
		}
	}
	return s.kv.Set(ctx, UserKey, string(data))
}

func (s *SessionTokenSource) saveUser(ctx context.Context, user external.APIUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.kv.Set(ctx, UserKey, string(data))
}

// load reads the stored session. user is nil when no complete session is stored.
func (s *SessionTokenSource) load(ctx context.Context) (token, refreshToken string, user *external.APIUser, err error) {
	token, found, err := s.kv.Get(ctx, TokenKey)
	if err != nil || !found || token == "" {
		return "", "", nil, err
	}

	user, err = s.loadUser(ctx)
	if err != nil || user == nil {
		return "", "", nil, err
	}

	refreshToken, _, err = s.kv.Get(ctx, RefreshTokenKey)
	if err != nil {
		log.Warn("Failed to load refresh token", zap.Error(err))
		refreshToken = ""
	}
	return token, refreshToken, user, nil
}

func (s *SessionTokenSource) loadUser(ctx context.Context) (*external.APIUser, error) {
	raw, found, err := s.kv.Get(ctx, UserKey)
	if err != nil || !found {
		return nil, err
	}
	var user external.APIUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &user, nil
}

func (s *SessionTokenSource) forget() error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.kv.MultiRemove(ctx, SessionKeys)
}

func (s *SessionTokenSource) logFailure(key string, err error) {
	if err != nil {
		log.Error(msg.GetMessage("persistence.write-failed", key), zap.Error(err))
	}
}
