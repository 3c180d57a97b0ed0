package schedule

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"weather-client/internal/domain/usecase/auth"
	"weather-client/internal/domain/usecase/theme"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
	"weather-client/pkg/resource"
)

// SessionScheduler keeps the access token fresh and follows the OS color scheme.
type SessionScheduler struct {
	scheduler     gocron.Scheduler
	authUseCase   auth.UseCase
	themeUseCase  theme.UseCase
	refreshBefore time.Duration
	now           func() time.Time
}

func NewSessionScheduler(authUseCase auth.UseCase, themeUseCase theme.UseCase) (*SessionScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &SessionScheduler{
		scheduler:     scheduler,
		authUseCase:   authUseCase,
		themeUseCase:  themeUseCase,
		refreshBefore: resource.GetDuration("app.session.refresh-before"),
		now:           time.Now,
	}, nil
}

// Start registers the keep-alive and theme sync jobs
func (s *SessionScheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(resource.GetDuration("app.session.keep-alive.interval")),
		gocron.NewTask(s.KeepAlive),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	_, err = s.scheduler.NewJob(
		gocron.DurationJob(resource.GetDuration("app.theme.sync-interval")),
		gocron.NewTask(s.themeUseCase.SyncSystemTheme),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	log.Info("Session scheduler started")
	return nil
}

// KeepAlive refreshes the session when the access token expires within refreshBefore.
// Tokens without a readable exp claim are left alone; a 401 on refresh expires the session.
func (s *SessionScheduler) KeepAlive(ctx context.Context) {
	session := s.authUseCase.Session()
	if !session.IsAuthenticated || session.Token == nil {
		return
	}

	expiresAt, ok := tokenExpiry(*session.Token)
	if !ok || expiresAt.Sub(s.now()) > s.refreshBefore {
		return
	}

	if _, err := s.authUseCase.RefreshSession(ctx); err != nil {
		log.Warn("Session keep-alive refresh failed", zap.Error(err))
		return
	}
	log.Info(msg.GetMessage("auth.keep-alive.refreshed"), zap.Time("previousExpiry", expiresAt))
}

// tokenExpiry reads the exp claim without verifying the signature; the server does that.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *SessionScheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Error("Failed to stop session scheduler", zap.Error(err))
	}
}
