package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weather-client/internal/domain/entity"
	"weather-client/internal/domain/gateway/location"
	"weather-client/internal/domain/usecase/weather"
	"weather-client/internal/state"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
	"weather-client/pkg/resource"
)

// SessionChecker reports whether a user session is active
type SessionChecker interface {
	IsAuthenticated() bool
}

// Snapshot is what a weather screen renders
type Snapshot struct {
	Location       *entity.Location       `json:"location"`
	CurrentWeather *entity.CurrentWeather `json:"currentWeather"`
	Forecast       []entity.DailyForecast `json:"forecast"`
	Loading        bool                   `json:"loading"`
	Error          *string                `json:"error"`
}

// WeatherOrchestrator sequences location acquisition and the weather fetches into one
// refresh cycle. At most one cycle runs at a time; a refresh requested while one is in
// flight is dropped, never queued.
type WeatherOrchestrator struct {
	weather     weather.UseCase
	locator     location.Provider
	session     SessionChecker
	requireAuth func() bool

	mu       sync.Mutex
	mounted  bool
	busy     bool
	locating bool
	localErr *string
}

func NewWeatherOrchestrator(weatherUseCase weather.UseCase, locator location.Provider, session SessionChecker) *WeatherOrchestrator {
	return &WeatherOrchestrator{
		weather: weatherUseCase,
		locator: locator,
		session: session,
		requireAuth: func() bool {
			return resource.GetBool("app.weather.require-auth")
		},
	}
}

// WithRequireAuth replaces the auth requirement lookup. It is evaluated on every refresh.
func (o *WeatherOrchestrator) WithRequireAuth(requireAuth func() bool) *WeatherOrchestrator {
	o.requireAuth = requireAuth
	return o
}

// Mount runs the first refresh. Later calls do nothing.
func (o *WeatherOrchestrator) Mount(ctx context.Context) bool {
	o.mu.Lock()
	if o.mounted {
		o.mu.Unlock()
		return false
	}
	o.mounted = true
	o.mu.Unlock()

	return o.Refresh(ctx)
}

// Refresh runs one cycle and blocks until it settles. It reports whether a cycle was
// started: false when the user must sign in first or when another cycle is still loading.
func (o *WeatherOrchestrator) Refresh(ctx context.Context) bool {
	if o.requireAuth() && !o.session.IsAuthenticated() {
		log.Debug(msg.GetMessage("weather.refresh.skipped-auth"))
		return false
	}

	o.mu.Lock()
	if o.busy || o.locating || o.weather.State().AnyLoading() {
		o.mu.Unlock()
		log.Debug(msg.GetMessage("weather.refresh.skipped-loading"))
		return false
	}
	o.busy = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	cycleID := uuid.NewString()
	log.Debug("Weather refresh started", zap.String("cycleId", cycleID))
	o.run(ctx)
	log.Debug("Weather refresh settled", zap.String("cycleId", cycleID), zap.Bool("failed", o.Error() != nil))
	return true
}

func (o *WeatherOrchestrator) run(ctx context.Context) {
	var acquired *location.Coordinates

	if o.weather.State().CurrentLocation == nil {
		coords, ok := o.acquireLocation(ctx)
		if !ok {
			return
		}
		// provisional commit with placeholder city and country
		if _, err := o.weather.SetLocation(ctx, coords.Latitude, coords.Longitude, "", ""); err != nil {
			return
		}
		acquired = &coords
	}

	var (
		wg         sync.WaitGroup
		current    state.CurrentWeatherResult
		currentErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = o.weather.FetchCurrentWeather(ctx)
	}()
	go func() {
		defer wg.Done()
		_, _ = o.weather.FetchForecast(ctx)
	}()
	wg.Wait()

	if acquired == nil || currentErr != nil || current.City == "" {
		return
	}

	committed := o.weather.State().CurrentLocation
	if committed != nil && committed.City == current.City && committed.Country == current.Country {
		return
	}
	_, _ = o.weather.SetLocation(ctx, acquired.Latitude, acquired.Longitude, current.City, current.Country)
}

// acquireLocation asks the device for a position. A failure is kept in the local error.
func (o *WeatherOrchestrator) acquireLocation(ctx context.Context) (location.Coordinates, bool) {
	o.mu.Lock()
	o.locating = true
	o.localErr = nil
	o.mu.Unlock()

	coords, err := o.locator.GetCurrentPosition(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.locating = false

	if err != nil {
		message := msg.GetMessage("location.error.failed")
		var locErr *location.Error
		if errors.As(err, &locErr) && locErr.Message != "" {
			message = locErr.Message
		}
		o.localErr = &message
		log.Warn(message, zap.Error(err))
		return location.Coordinates{}, false
	}
	return coords, true
}

// Loading is true while the device is locating or any weather fetch is in flight.
func (o *WeatherOrchestrator) Loading() bool {
	o.mu.Lock()
	locating := o.locating
	o.mu.Unlock()

	return locating || o.weather.State().AnyLoading()
}

// Error returns the first error among the local location error, then the slice's location,
// current weather and forecast errors.
func (o *WeatherOrchestrator) Error() *string {
	o.mu.Lock()
	localErr := o.localErr
	o.mu.Unlock()

	if localErr != nil {
		return localErr
	}

	errs := o.weather.State().Error
	for _, candidate := range []*string{errs.Location, errs.CurrentWeather, errs.Forecast} {
		if candidate != nil {
			return candidate
		}
	}
	return nil
}

func (o *WeatherOrchestrator) Snapshot() Snapshot {
	current := o.weather.State()
	return Snapshot{
		Location:       current.CurrentLocation,
		CurrentWeather: current.CurrentWeather,
		Forecast:       current.Forecast,
		Loading:        o.Loading(),
		Error:          o.Error(),
	}
}
