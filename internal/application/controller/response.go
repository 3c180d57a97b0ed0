package controller

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"weather-client/internal/state"
)

var validate = validator.New()

// bindAndValidate decodes the body into dto and runs its validate tags. Failures are
// returned as 400 echo errors.
func bindAndValidate(c echo.Context, dto any) error {
	if err := c.Bind(dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// operationFailed maps a rejected operation to a response. Remote failures keep the remote
// status; local ones become a 4xx.
func operationFailed(c echo.Context, err error) error {
	var opErr *state.OperationError
	if !errors.As(err, &opErr) {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(statusOf(opErr), opErr)
}

func statusOf(opErr *state.OperationError) int {
	if opErr.StatusCode >= http.StatusBadRequest {
		return opErr.StatusCode
	}
	switch opErr.Code {
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "LOCATION_NOT_SET":
		return http.StatusConflict
	case "NETWORK_ERROR":
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}
