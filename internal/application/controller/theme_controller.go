package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-client/internal/domain/model"
	"weather-client/internal/domain/usecase/theme"
)

// SchemeSetter records the color scheme reported by the host
type SchemeSetter interface {
	Set(scheme string)
}

type ThemeController struct {
	api     *echo.Group
	useCase theme.UseCase
	scheme  SchemeSetter
}

func NewThemeController(api *echo.Group, useCase theme.UseCase, scheme SchemeSetter) *ThemeController {
	return &ThemeController{api: api, useCase: useCase, scheme: scheme}
}

// InitThemeRoutes initializes theme routes
func (controller *ThemeController) InitThemeRoutes() {
	controller.api.GET("/theme", controller.GetTheme)
	controller.api.PUT("/theme", controller.SetThemeMode)
	controller.api.PUT("/theme/system", controller.SetSystemScheme)
}

func (controller *ThemeController) GetTheme(c echo.Context) error {
	return c.JSON(http.StatusOK, controller.useCase.State())
}

// SetThemeMode godoc
// @Summary Select light, dark or system theme
// @Tags theme
// @Accept json
// @Produce json
// @Param theme body model.ThemeDTO true "Theme mode"
// @Success 200 {object} state.ThemeState
// @Failure 400 {object} map[string]string "Unknown mode"
// @Router /theme [put]
func (controller *ThemeController) SetThemeMode(c echo.Context) error {
	var dto model.ThemeDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	if err := controller.useCase.SetThemeMode(dto.Mode); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, controller.useCase.State())
}

// SetSystemScheme lets the host report an OS color scheme change
func (controller *ThemeController) SetSystemScheme(c echo.Context) error {
	var dto model.SystemSchemeDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	controller.scheme.Set(dto.Scheme)
	controller.useCase.SyncSystemTheme()
	return c.JSON(http.StatusOK, controller.useCase.State())
}
