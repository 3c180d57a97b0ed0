package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-client/internal/application/orchestrator"
	"weather-client/internal/domain/model"
	"weather-client/internal/domain/usecase/weather"
	"weather-client/pkg/util/numberutils"
)

const maxPageSize = 100

type WeatherController struct {
	api          *echo.Group
	useCase      weather.UseCase
	orchestrator *orchestrator.WeatherOrchestrator
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase, orchestrator *orchestrator.WeatherOrchestrator) *WeatherController {
	return &WeatherController{api: api, useCase: useCase, orchestrator: orchestrator}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.GET("/weather", controller.GetSnapshot)
	controller.api.POST("/weather/refresh", controller.Refresh)
	controller.api.POST("/weather/location", controller.SetLocation)
	controller.api.DELETE("/weather", controller.ResetWeatherData)
	controller.api.GET("/weather/current", controller.FetchCurrentWeather)
	controller.api.GET("/weather/forecast", controller.FetchForecast)
	controller.api.GET("/weather/search", controller.SearchWeatherByLocation)
	controller.api.GET("/weather/history", controller.GetWeatherHistory)
}

// GetSnapshot godoc
// @Summary Get the weather screen state
// @Description Location, current weather, forecast, combined loading flag and the first error by priority
// @Tags weather
// @Produce json
// @Success 200 {object} orchestrator.Snapshot
// @Router /weather [get]
func (controller *WeatherController) GetSnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, controller.orchestrator.Snapshot())
}

// Refresh godoc
// @Summary Run a weather refresh cycle
// @Description Acquires the location when none is set, then fetches current weather and forecast.
// @Description A refresh requested while one is loading, or without a session when one is required, does nothing.
// @Tags weather
// @Produce json
// @Success 200 {object} model.RefreshResponseDTO
// @Router /weather/refresh [post]
func (controller *WeatherController) Refresh(c echo.Context) error {
	started := controller.orchestrator.Refresh(c.Request().Context())

	return c.JSON(http.StatusOK, model.RefreshResponseDTO{
		Started: started,
		Loading: controller.orchestrator.Loading(),
		Error:   controller.orchestrator.Error(),
	})
}

// SetLocation godoc
// @Summary Set the current location
// @Tags weather
// @Accept json
// @Produce json
// @Param location body model.SetLocationDTO true "Coordinates and optional place"
// @Success 200 {object} entity.Location
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /weather/location [post]
func (controller *WeatherController) SetLocation(c echo.Context) error {
	var dto model.SetLocationDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	location, err := controller.useCase.SetLocation(c.Request().Context(), dto.Latitude, dto.Longitude, dto.City, dto.Country)
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, location)
}

// ResetWeatherData godoc
// @Summary Drop current weather and forecast, keeping the location
// @Tags weather
// @Success 204
// @Router /weather [delete]
func (controller *WeatherController) ResetWeatherData(c echo.Context) error {
	controller.useCase.ResetWeatherData()
	return c.NoContent(http.StatusNoContent)
}

func (controller *WeatherController) FetchCurrentWeather(c echo.Context) error {
	result, err := controller.useCase.FetchCurrentWeather(c.Request().Context())
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, result.Weather)
}

func (controller *WeatherController) FetchForecast(c echo.Context) error {
	forecast, err := controller.useCase.FetchForecast(c.Request().Context())
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, forecast)
}

// SearchWeatherByLocation godoc
// @Summary Look up the weather of a city
// @Tags weather
// @Produce json
// @Param q query string true "City name"
// @Success 200 {object} model.WeatherSearchResult
// @Failure 400 {object} map[string]string "Missing query"
// @Router /weather/search [get]
func (controller *WeatherController) SearchWeatherByLocation(c echo.Context) error {
	dto := model.SearchDTO{Query: c.QueryParam("q")}
	if err := validate.Struct(dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}

	result, err := controller.useCase.SearchWeatherByLocation(c.Request().Context(), dto.Query)
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetWeatherHistory godoc
// @Summary Get the user's weather lookups
// @Tags weather
// @Produce json
// @Param page query int false "Page number" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} model.Page[model.WeatherHistoryItem]
// @Router /weather/history [get]
func (controller *WeatherController) GetWeatherHistory(c echo.Context) error {
	page := numberutils.MaxInt(numberutils.ToIntWithDefault(c.QueryParam("page"), 0), 0)
	size := numberutils.Clamp(numberutils.ToIntWithDefault(c.QueryParam("size"), 10), 1, maxPageSize)

	history, err := controller.useCase.GetWeatherHistory(c.Request().Context())
	if err != nil {
		return operationFailed(c, err)
	}

	start := numberutils.MinInt(page*size, len(history))
	end := numberutils.MinInt(start+size, len(history))
	return c.JSON(http.StatusOK, model.NewPage(history[start:end], page, size, int64(len(history))))
}
