package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weather-client/internal/domain/usecase/auth"
	"weather-client/internal/state"
	"weather-client/pkg/resource"
)

type fakeAuth struct {
	auth.UseCase

	session   state.AuthState
	refreshes atomic.Int32
	err       error
}

func (f *fakeAuth) Session() state.AuthState { return f.session }

func (f *fakeAuth) RefreshSession(context.Context) (state.TokenPair, error) {
	f.refreshes.Add(1)
	return state.TokenPair{}, f.err
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got, ok := tokenExpiry(signed(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}))
	if !ok || !got.Equal(exp) {
		t.Errorf("expiry = %v, %v", got, ok)
	}

	if _, ok := tokenExpiry(signed(t, jwt.MapClaims{"sub": "u1"})); ok {
		t.Error("a token without exp has no expiry")
	}
	if _, ok := tokenExpiry("opaque-token"); ok {
		t.Error("an opaque token has no expiry")
	}
}

func TestKeepAlive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		authenticated bool
		claims        jwt.MapClaims
		wantRefresh   bool
	}{
		{"expiring soon", true, jwt.MapClaims{"exp": now.Add(2 * time.Minute).Unix()}, true},
		{"already expired", true, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}, true},
		{"plenty of time", true, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}, false},
		{"no exp claim", true, jwt.MapClaims{"sub": "u1"}, false},
		{"signed out", false, jwt.MapClaims{"exp": now.Unix()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signed(t, tt.claims)
			fake := &fakeAuth{session: state.AuthState{IsAuthenticated: tt.authenticated, Token: &token}}
			scheduler := &SessionScheduler{
				authUseCase:   fake,
				refreshBefore: 5 * time.Minute,
				now:           func() time.Time { return now },
			}

			scheduler.KeepAlive(context.Background())

			if got := fake.refreshes.Load() == 1; got != tt.wantRefresh {
				t.Errorf("refreshed = %v, want %v", got, tt.wantRefresh)
			}
		})
	}
}

func TestKeepAliveSurvivesRefreshFailure(t *testing.T) {
	now := time.Now()
	token := signed(t, jwt.MapClaims{"exp": now.Unix()})
	fake := &fakeAuth{
		session: state.AuthState{IsAuthenticated: true, Token: &token},
		err:     errors.New("session expired"),
	}
	scheduler := &SessionScheduler{authUseCase: fake, refreshBefore: time.Minute, now: func() time.Time { return now }}

	scheduler.KeepAlive(context.Background())

	if fake.refreshes.Load() != 1 {
		t.Errorf("refreshes = %d", fake.refreshes.Load())
	}
}

type fakeRefresher struct{ calls atomic.Int32 }

func (f *fakeRefresher) Refresh(ctx context.Context) bool {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		panic("scheduled refresh must be bounded")
	}
	return true
}

func TestWeatherSchedulerRunsRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler := NewWeatherScheduler(refresher)

	scheduler.ExecuteScheduledTask()

	if refresher.calls.Load() != 1 {
		t.Errorf("refreshes = %d", refresher.calls.Load())
	}
}

func TestWeatherSchedulerRejectsBadCron(t *testing.T) {
	previous := resource.GetString("app.weather.refresh.cron")
	resource.Set("app.weather.refresh.cron", "every now and then")
	t.Cleanup(func() { resource.Set("app.weather.refresh.cron", previous) })

	scheduler := NewWeatherScheduler(&fakeRefresher{})
	if err := scheduler.InitWeatherScheduleTasks(); err == nil {
		scheduler.Stop()
		t.Fatal("an invalid cron expression must be rejected")
	}
}
