package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weather-client/pkg/log"
	"weather-client/pkg/msg"
	"weather-client/pkg/resource"
)

// Refresher runs one weather refresh cycle
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// WeatherScheduler refreshes the weather on a cron expression
type WeatherScheduler struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
}

func NewWeatherScheduler(refresher Refresher) *WeatherScheduler {
	return &WeatherScheduler{cron: cron.New(), refresher: refresher, timeout: time.Minute}
}

// InitWeatherScheduleTasks registers the refresh job on app.weather.refresh.cron and starts the cron
func (s *WeatherScheduler) InitWeatherScheduleTasks() error {
	expression := resource.GetString("app.weather.refresh.cron")

	if _, err := s.cron.AddFunc(expression, s.ExecuteScheduledTask); err != nil {
		return err
	}

	s.cron.Start()
	log.Infof("Weather refresh scheduler started with cron expression: %s", expression)
	return nil
}

// ExecuteScheduledTask triggers a refresh; it is skipped while another one is in flight
func (s *WeatherScheduler) ExecuteScheduledTask() {
	requestID := uuid.New().String()
	log.Info(msg.GetMessage("weather.refresh.cron-start"), zap.String("request_id", requestID))

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := s.refresher.Refresh(ctx)
	log.Info("Scheduled weather refresh finished", zap.String("request_id", requestID), zap.Bool("started", started))
}

// Stop waits for a running job before returning
func (s *WeatherScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}
