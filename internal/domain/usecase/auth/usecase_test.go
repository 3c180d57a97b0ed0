package auth

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/domain/gateway/storage"
	"weather-client/internal/domain/model"
	"weather-client/internal/state"
	"weather-client/pkg/http"
)

// fakeAPI answers the auth endpoints; logoutStatus and refreshStatus pick failure modes
type fakeAPI struct {
	mu            sync.Mutex
	calls         map[string]int
	logoutStatus  int
	refreshStatus int
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) failWith(logoutStatus, refreshStatus int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutStatus, f.refreshStatus = logoutStatus, refreshStatus
}

func (f *fakeAPI) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[r.URL.Path]++
	logoutStatus, refreshStatus := f.logoutStatus, f.refreshStatus
	f.mu.Unlock()

	respond := func(status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	switch r.URL.Path {
	case "/api/v1/auth/login":
		respond(200, map[string]any{
			"user":         map[string]any{"id": "1", "firstName": "Ada", "lastName": "", "email": "a@b.com"},
			"token":        "tok",
			"refreshToken": "rtok",
		})
	case "/api/v1/auth/register":
		respond(201, map[string]any{"message": "created", "userId": "1", "verificationCode": "123456"})
	case "/api/v1/auth/verify-email":
		respond(200, map[string]any{"message": "verified"})
	case "/api/v1/auth/logout":
		if logoutStatus != 0 {
			respond(logoutStatus, map[string]any{"error": "LOGOUT_FAILED", "message": "server down"})
			return
		}
		respond(200, map[string]any{"message": "bye"})
	case "/api/v1/auth/refresh":
		if refreshStatus != 0 {
			respond(refreshStatus, map[string]any{"error": "INVALID_REFRESH", "message": "refresh rejected"})
			return
		}
		respond(200, map[string]any{"token": "tok2"})
	default:
		respond(404, map[string]any{"error": "NOT_FOUND", "message": "not found"})
	}
}

type fixture struct {
	store   *state.Store
	kv      storage.KeyValueStore
	gateway api.Gateway
	api     *fakeAPI
	useCase UseCase
}

func newFixture(t *testing.T, kv storage.KeyValueStore) *fixture {
	t.Helper()
	fake := &fakeAPI{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store := state.NewStore(state.InitialState(false))
	session := NewSessionTokenSource(store, kv)
	gateway := api.NewGateway(server.URL, http.ClientOptions{}, session)
	return &fixture{
		store:   store,
		kv:      kv,
		gateway: gateway,
		api:     fake,
		useCase: NewAuthUseCase(store, gateway, session),
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	if _, err := f.useCase.Login(context.Background(), model.LoginDTO{Email: "a@b.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// assertTokenConsistency checks that the slice and the API client agree on the token
func assertTokenConsistency(t *testing.T, f *fixture) {
	t.Helper()
	sliceToken := f.store.GetState().Auth.Token
	clientToken, ok := f.gateway.GetToken()
	switch {
	case sliceToken == nil && ok:
		t.Errorf("client still holds %q after the slice dropped its token", clientToken)
	case sliceToken != nil && (!ok || clientToken != *sliceToken):
		t.Errorf("slice token %q, client token %q", *sliceToken, clientToken)
	}
}

func TestLoginSignsIn(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	f.login(t)

	auth := f.store.GetState().Auth
	if !auth.IsAuthenticated || auth.Token == nil || *auth.Token != "tok" {
		t.Fatalf("auth = %+v", auth)
	}
	if auth.User == nil || auth.User.Name != "Ada" {
		t.Errorf("user = %+v, want trimmed name Ada", auth.User)
	}
	assertTokenConsistency(t, f)

	if token, found, _ := f.kv.Get(context.Background(), TokenKey); !found || token != "tok" {
		t.Errorf("stored token = %q found=%v", token, found)
	}
}

func TestLoginValidatesBeforeCalling(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())

	_, err := f.useCase.Login(context.Background(), model.LoginDTO{Email: "not-an-email", Password: "123"})

	var opErr *state.OperationError
	if !errors.As(err, &opErr) || opErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %v, want a validation rejection", err)
	}
	if f.api.count("/api/v1/auth/login") != 0 {
		t.Error("invalid input must not reach the API")
	}
	if f.store.GetState().Auth.Error == nil {
		t.Error("rejection must be visible in the slice")
	}
}

func TestLogoutTearsDownSession(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	f.login(t)

	if err := f.useCase.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	auth := f.store.GetState().Auth
	if auth.IsAuthenticated || auth.Token != nil || auth.User != nil {
		t.Errorf("auth = %+v", auth)
	}
	assertTokenConsistency(t, f)
	for _, key := range SessionKeys {
		if _, found, _ := f.kv.Get(context.Background(), key); found {
			t.Errorf("%s should be removed", key)
		}
	}
}

func TestLogoutServerFailureStillTearsDown(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	f.login(t)
	f.api.failWith(500, 0)

	err := f.useCase.Logout(context.Background())
	if err == nil {
		t.Fatal("expected the server failure to be reported")
	}

	auth := f.store.GetState().Auth
	if auth.IsAuthenticated || auth.Token != nil {
		t.Errorf("session not torn down: %+v", auth)
	}
	if auth.Error == nil || auth.Error.Message != "server down" {
		t.Errorf("error = %+v", auth.Error)
	}
	assertTokenConsistency(t, f)
}

func TestLogoutIgnoresMissingEndpoint(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	f.login(t)
	f.api.failWith(404, 0)

	if err := f.useCase.Logout(context.Background()); err != nil {
		t.Errorf("a missing logout endpoint is not a failure: %v", err)
	}
}

type brokenRemoveStore struct {
	*storage.MemoryStore
}

func (brokenRemoveStore) MultiRemove(context.Context, []string) error {
	return errors.New("storage offline")
}

func TestLogoutStorageFailureStillTearsDown(t *testing.T) {
	f := newFixture(t, brokenRemoveStore{storage.NewMemoryStore()})
	f.login(t)

	if err := f.useCase.Logout(context.Background()); err == nil {
		t.Fatal("expected the storage failure to be reported")
	}

	if f.store.GetState().Auth.IsAuthenticated {
		t.Error("session must end even when storage cannot be cleared")
	}
	assertTokenConsistency(t, f)
}

func TestRegisterVerifiesAndLogsIn(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())

	_, err := f.useCase.Register(context.Background(), model.RegisterDTO{Name: "Ada Lovelace", Email: "a@b.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	auth := f.store.GetState().Auth
	if !auth.IsAuthenticated || auth.PendingVerification != nil {
		t.Errorf("auth = %+v", auth)
	}
	for _, path := range []string{"/api/v1/auth/register", "/api/v1/auth/verify-email", "/api/v1/auth/login"} {
		if f.api.count(path) != 1 {
			t.Errorf("%s called %d times, want 1", path, f.api.count(path))
		}
	}
}

func TestRestoreSessionFromStorage(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	_ = kv.Set(ctx, TokenKey, "stored")
	_ = kv.Set(ctx, RefreshTokenKey, "stored-refresh")
	_ = kv.Set(ctx, UserKey, `{"id":"7","firstName":"Grace","lastName":"Hopper","email":"g@h.com","preferences":{"temperatureUnit":"celsius","theme":"system","notifications":true}}`)

	f := newFixture(t, kv)
	session, err := f.useCase.RestoreSession(ctx)
	if err != nil || session == nil {
		t.Fatalf("restore: session=%v err=%v", session, err)
	}

	auth := f.store.GetState().Auth
	if !auth.IsAuthenticated || *auth.Token != "stored" || *auth.RefreshToken != "stored-refresh" {
		t.Errorf("auth = %+v", auth)
	}
	if auth.User.Name != "Grace Hopper" || auth.User.Preferences.Theme != "auto" {
		t.Errorf("user = %+v", auth.User)
	}
	assertTokenConsistency(t, f)
}

func TestRestoreSessionWithoutStoredSession(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())

	session, err := f.useCase.RestoreSession(context.Background())
	if err != nil || session != nil {
		t.Fatalf("session=%v err=%v, want nothing restored", session, err)
	}
	if auth := f.store.GetState().Auth; auth.IsAuthenticated || auth.Error != nil {
		t.Errorf("auth = %+v", auth)
	}
}

func TestRefreshSessionRejectedExpiresSession(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	f.login(t)
	f.api.failWith(0, 401)

	if _, err := f.useCase.RefreshSession(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}

	auth := f.store.GetState().Auth
	if auth.IsAuthenticated || auth.Token != nil {
		t.Errorf("session must be expired: %+v", auth)
	}
	if auth.Error == nil || auth.Error.Code != state.SessionExpiredCode {
		t.Errorf("error = %+v, want %s", auth.Error, state.SessionExpiredCode)
	}
	if _, found, _ := f.kv.Get(context.Background(), TokenKey); found {
		t.Error("stored token must be removed on expiry")
	}
}

func TestRefreshSessionRotatesToken(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	f.login(t)

	if _, err := f.useCase.RefreshSession(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	auth := f.store.GetState().Auth
	if *auth.Token != "tok2" || *auth.RefreshToken != "rtok" {
		t.Errorf("tokens = %s %s", *auth.Token, *auth.RefreshToken)
	}
	assertTokenConsistency(t, f)
}
