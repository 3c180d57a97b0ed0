package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-client/internal/domain/model"
	"weather-client/internal/domain/usecase/auth"
	"weather-client/internal/state"
)

type AuthController struct {
	api     *echo.Group
	useCase auth.UseCase
}

func NewAuthController(api *echo.Group, useCase auth.UseCase) *AuthController {
	return &AuthController{api: api, useCase: useCase}
}

// InitAuthRoutes initializes session and profile routes
func (controller *AuthController) InitAuthRoutes() {
	controller.api.GET("/auth/session", controller.GetSession)
	controller.api.POST("/auth/login", controller.Login)
	controller.api.POST("/auth/register", controller.Register)
	controller.api.POST("/auth/verify-email", controller.VerifyEmail)
	controller.api.POST("/auth/resend-verification", controller.ResendVerification)
	controller.api.POST("/auth/refresh", controller.RefreshSession)
	controller.api.POST("/auth/logout", controller.Logout)
	controller.api.DELETE("/auth/error", controller.ClearError)
	controller.api.DELETE("/auth/pending-verification", controller.ClearPendingVerification)

	controller.api.GET("/profile", controller.GetProfile)
	controller.api.PUT("/profile", controller.UpdateProfile)
	controller.api.DELETE("/profile", controller.DeleteProfile)
}

// GetSession godoc
// @Summary Get the session state
// @Description Tokens are never exposed.
// @Tags auth
// @Produce json
// @Success 200 {object} model.SessionView
// @Router /auth/session [get]
func (controller *AuthController) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, controller.view())
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.LoginDTO true "Email and password"
// @Success 200 {object} model.SessionView
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} state.OperationError "Invalid credentials"
// @Router /auth/login [post]
func (controller *AuthController) Login(c echo.Context) error {
	var dto model.LoginDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	if _, err := controller.useCase.Login(c.Request().Context(), dto); err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, controller.view())
}

// Register godoc
// @Summary Create an account and log in
// @Tags auth
// @Accept json
// @Produce json
// @Param account body model.RegisterDTO true "Name, email and password"
// @Success 201 {object} model.SessionView
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /auth/register [post]
func (controller *AuthController) Register(c echo.Context) error {
	var dto model.RegisterDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	if _, err := controller.useCase.Register(c.Request().Context(), dto); err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusCreated, controller.view())
}

func (controller *AuthController) VerifyEmail(c echo.Context) error {
	var dto model.VerifyEmailDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	result, err := controller.useCase.VerifyEmail(c.Request().Context(), dto)
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *AuthController) ResendVerification(c echo.Context) error {
	var dto model.ResendVerificationDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	result, err := controller.useCase.ResendVerification(c.Request().Context(), dto.Email)
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *AuthController) RefreshSession(c echo.Context) error {
	if _, err := controller.useCase.RefreshSession(c.Request().Context()); err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, controller.view())
}

// Logout godoc
// @Summary Log out
// @Description The local session is always torn down, even when the server call fails.
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (controller *AuthController) Logout(c echo.Context) error {
	if err := controller.useCase.Logout(c.Request().Context()); err != nil {
		return operationFailed(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (controller *AuthController) ClearError(c echo.Context) error {
	controller.useCase.ClearError()
	return c.NoContent(http.StatusNoContent)
}

func (controller *AuthController) ClearPendingVerification(c echo.Context) error {
	controller.useCase.ClearPendingVerification()
	return c.NoContent(http.StatusNoContent)
}

func (controller *AuthController) GetProfile(c echo.Context) error {
	user, err := controller.useCase.LoadCurrentUser(c.Request().Context())
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update name, email or preferences
// @Tags auth
// @Accept json
// @Produce json
// @Param profile body model.UpdateProfileDTO true "Fields to change"
// @Success 200 {object} entity.User
// @Router /profile [put]
func (controller *AuthController) UpdateProfile(c echo.Context) error {
	var dto model.UpdateProfileDTO
	if err := bindAndValidate(c, &dto); err != nil {
		return err
	}

	user, err := controller.useCase.UpdateProfile(c.Request().Context(), dto)
	if err != nil {
		return operationFailed(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (controller *AuthController) DeleteProfile(c echo.Context) error {
	if err := controller.useCase.DeleteProfile(c.Request().Context()); err != nil {
		return operationFailed(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (controller *AuthController) view() model.SessionView {
	return sessionView(controller.useCase.Session())
}

func sessionView(session state.AuthState) model.SessionView {
	return model.SessionView{
		User:                session.User,
		IsAuthenticated:     session.IsAuthenticated,
		IsLoading:           session.IsLoading,
		Error:               session.Error,
		PendingVerification: session.PendingVerification,
	}
}
