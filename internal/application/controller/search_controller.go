package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-client/internal/domain/model"
	"weather-client/internal/domain/usecase/search"
)

type SearchController struct {
	api     *echo.Group
	useCase search.UseCase
}

func NewSearchController(api *echo.Group, useCase search.UseCase) *SearchController {
	return &SearchController{api: api, useCase: useCase}
}

// InitSearchRoutes initializes search routes
func (controller *SearchController) InitSearchRoutes() {
	controller.api.GET("/search", controller.GetState)
	controller.api.GET("/search/locations", controller.SearchLocations)
	controller.api.PUT("/search/term", controller.SetSearchTerm)
	controller.api.DELETE("/search/results", controller.ClearSearchResults)
	controller.api.POST("/search/history", controller.AddToSearchHistory)
	controller.api.DELETE("/search/history", controller.ClearSearchHistory)
}

func (controller *SearchController) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, controller.useCase.State())
}

// SearchLocations godoc
// @Summary Search places by name
// @Description Records the term and resolves it to places. An empty term clears the results.
// @Tags search
// @Produce json
// @Param q query string false "Place name"
// @Success 200 {array} entity.SearchResult
// @Router /search/locations [get]
func (controller *SearchController) SearchLocations(c echo.Context) error {
	results, err := controller.useCase.SearchLocations(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (controller *SearchController) SetSearchTerm(c echo.Context) error {
	var dto model.SearchTermDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	controller.useCase.SetSearchTerm(dto.Term)
	return c.JSON(http.StatusOK, controller.useCase.State())
}

func (controller *SearchController) ClearSearchResults(c echo.Context) error {
	controller.useCase.ClearSearchResults()
	return c.NoContent(http.StatusNoContent)
}

// AddToSearchHistory godoc
// @Summary Put a place at the front of the search history
// @Description Known ids move to the front; the history keeps the 10 most recent places.
// @Tags search
// @Accept json
// @Produce json
// @Param place body model.SearchResultDTO true "Selected place"
// @Success 200 {array} entity.SearchHistoryItem
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /search/history [post]
func (controller *SearchController) AddToSearchHistory(c echo.Context) error {
	var dto model.SearchResultDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	controller.useCase.AddToSearchHistory(dto.ToEntity())
	return c.JSON(http.StatusOK, controller.useCase.State().SearchHistory)
}

func (controller *SearchController) ClearSearchHistory(c echo.Context) error {
	controller.useCase.ClearSearchHistory()
	return c.NoContent(http.StatusNoContent)
}
