package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"weather-client/configs"
	"weather-client/internal/application/controller"
	"weather-client/internal/application/middleware"
	"weather-client/internal/application/orchestrator"
	"weather-client/internal/application/persistence"
	"weather-client/internal/application/schedule"
	"weather-client/internal/domain/gateway/api"
	"weather-client/internal/domain/gateway/location"
	"weather-client/internal/domain/usecase/auth"
	"weather-client/internal/domain/usecase/health"
	"weather-client/internal/domain/usecase/search"
	"weather-client/internal/domain/usecase/theme"
	"weather-client/internal/domain/usecase/weather"
	"weather-client/internal/infra/database"
	"weather-client/internal/state"
	"weather-client/pkg/http"
	"weather-client/pkg/log"
	"weather-client/pkg/msg"
	"weather-client/pkg/resource"
)

func main() {
	defer log.Sync()
	log.Info(msg.GetMessage("app.start"),
		zap.String("application", configs.Env.ApplicationName),
		zap.String("logLevel", configs.Env.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init storage
	kv, kvCloser, err := database.OpenKeyValueStore(ctx, resource.GetString("app.storage.driver"))
	if err != nil {
		log.Fatal("Failed to open key-value storage", zap.Error(err))
	}
	defer func() { _ = kvCloser.Close() }()

	// Init state
	scheme := theme.NewStaticColorScheme(resource.GetString("app.theme.system-scheme"))
	store := state.NewStore(state.InitialState(scheme.IsDark()))
	defer store.Close()

	persistor := persistence.NewPersistor(store, kv,
		persistence.ThemeConfig(scheme.IsDark),
		persistence.SearchConfig())
	persistor.Rehydrate(ctx)
	persistor.Start(ctx)
	defer persistor.Close()

	// Init gateways
	session := auth.NewSessionTokenSource(store, kv)
	apiGateway := api.NewGateway(resource.GetString("app.api.base-url"), http.ClientOptions{
		ReadTimeout:       resource.GetDuration("app.api.read-timeout"),
		ConnectionTimeout: resource.GetDuration("app.api.connection-timeout"),
		Backoff: http.NewBackoffConfig(
			resource.GetInt("app.api.max-retries"),
			resource.GetDuration("app.api.retry-interval")),
		RequestsPerSecond: resource.GetFloat64("app.api.rate-limit.rps"),
		Burst:             resource.GetInt("app.api.rate-limit.burst"),
		BreakerName:       resource.GetString("app.name"),
		Logger:            http.ZapHTTPLogger{},
	}, session)
	locator := location.NewStaticProvider(
		resource.GetBool("app.location.permission-granted"),
		resource.GetFloat64("app.location.latitude"),
		resource.GetFloat64("app.location.longitude"),
		resource.GetDuration("app.location.timeout"))

	// Init UseCase
	authUseCase := auth.NewAuthUseCase(store, apiGateway, session)
	weatherUseCase := weather.NewWeatherUseCase(store, apiGateway, resource.GetInt("app.weather.forecast-days"))
	searchUseCase := search.NewSearchUseCase(store, apiGateway)
	themeUseCase := theme.NewThemeUseCase(store, scheme)
	healthUseCase := health.NewHealthUseCase(kv, apiGateway)
	weatherOrchestrator := orchestrator.NewWeatherOrchestrator(weatherUseCase, locator, apiGateway)

	if _, err := authUseCase.RestoreSession(ctx); err != nil {
		log.Warn("Stored session could not be restored", zap.Error(err))
	}
	go weatherOrchestrator.Mount(ctx)

	// Init Controller
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	middleware.SetupRequestLogger(e)
	group := e.Group(resource.GetString("app.server.context-path"))

	controller.NewHealthController(group, healthUseCase).InitHealthRoutes()
	controller.NewWeatherController(group, weatherUseCase, weatherOrchestrator).InitWeatherRoutes()
	controller.NewSearchController(group, searchUseCase).InitSearchRoutes()
	controller.NewAuthController(group, authUseCase).InitAuthRoutes()
	controller.NewThemeController(group, themeUseCase, scheme).InitThemeRoutes()
	controller.NewStateStreamController(group, store, persistor).InitStateRoutes()

	// Init Schedule
	weatherScheduler := schedule.NewWeatherScheduler(weatherOrchestrator)
	if err := weatherScheduler.InitWeatherScheduleTasks(); err != nil {
		log.Error("Failed to start weather refresh scheduler", zap.Error(err))
	}
	defer weatherScheduler.Stop()

	sessionScheduler, err := schedule.NewSessionScheduler(authUseCase, themeUseCase)
	if err != nil {
		log.Fatal("Failed to create session scheduler", zap.Error(err))
	}
	if err := sessionScheduler.Start(); err != nil {
		log.Error("Failed to start session scheduler", zap.Error(err))
	}
	defer sessionScheduler.Stop()

	// Start Routes
	go func() {
		port := resource.GetString("app.server.port")
		log.Info(msg.GetMessage("app.started", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Error("Control server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop control server", zap.Error(err))
	}
}
