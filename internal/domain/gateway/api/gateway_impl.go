package api

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"weather-client/internal/domain/model"
	"weather-client/internal/domain/model/external"
	"weather-client/pkg/http"
	"weather-client/pkg/log"
)

const (
	loginPath       = "/api/v1/auth/login"
	registerPath    = "/api/v1/auth/register"
	logoutPath      = "/api/v1/auth/logout"
	refreshPath     = "/api/v1/auth/refresh"
	verifyEmailPath = "/api/v1/auth/verify-email"
	currentPath     = "/api/v1/weather/current"
	forecastPath    = "/api/v1/weather/forecast"
	historyPath     = "/api/v1/weather/history"
	profilePath     = "/api/v1/profile"
	healthPath      = "/api/health"
)

// errNoRefreshToken is returned when a 401 cannot be recovered
var errNoRefreshToken = errors.New("no refresh token available")

// gatewayImpl implements the Gateway interface
type gatewayImpl struct {
	httpClient *http.Client
	tokens     TokenSource
	refreshes  singleflight.Group
}

// NewGateway creates a new instance of Gateway with HTTP client
func NewGateway(baseUrl string, clientOptions http.ClientOptions, tokens TokenSource) Gateway {
	return &gatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		tokens:     tokens,
	}
}

type call struct {
	method        http.RequestMethod
	path          string
	query         map[string]string
	body          any
	authenticated bool
	out           any
}

// do performs one API request. Authenticated calls carry the bearer token and get one
// refresh-and-retry on 401; when the refresh fails the session is expired.
func (g *gatewayImpl) do(ctx context.Context, c call) error {
	err := g.send(ctx, c)

	var apiErr *Error
	if !c.authenticated || !errors.As(err, &apiErr) || apiErr.StatusCode != nethttp.StatusUnauthorized {
		return err
	}

	log.Info("Access token rejected, refreshing session", zap.String("path", c.path))
	if _, refreshErr := g.refresh(ctx); refreshErr != nil {
		log.Warn("Session refresh failed, expiring session", zap.String("path", c.path), zap.Error(refreshErr))
		g.tokens.Expire()
		return err
	}

	return g.send(ctx, c)
}

func (g *gatewayImpl) send(ctx context.Context, c call) error {
	headers := map[string]string{}
	if c.authenticated {
		if token, ok := g.tokens.Token(); ok {
			headers["Authorization"] = "Bearer " + token
		}
	}

	request := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(c.method).
		WithPath(c.path).
		WithQueryParams(c.query).
		WithHeaders(headers).
		WithErrorResp(&external.APIErrorResponse{})
	if c.body != nil {
		request = request.WithBody(c.body)
	}
	if c.out != nil {
		request = request.WithSuccessResp(c.out)
	}

	_, errResp, status, err := request.Execute()
	if err == nil {
		return nil
	}
	return toError(errResp, status, err)
}

// toError maps a failed round trip to an Error, preferring the API's own message
func toError(errResp any, status int, err error) error {
	if errors.Is(err, http.ErrCircuitOpen) || status == 0 {
		return &Error{Message: err.Error(), Code: "NETWORK_ERROR"}
	}
	if status >= 200 && status < 300 {
		return &Error{Message: fmt.Sprintf("invalid response: %v", err), Code: "DECODE_ERROR", StatusCode: status}
	}

	out := &Error{Message: fmt.Sprintf("HTTP %d", status), Code: "Request failed", StatusCode: status}
	if body, ok := errResp.(*external.APIErrorResponse); ok && body != nil {
		if body.Message != "" {
			out.Message = body.Message
		}
		if body.Error != "" {
			out.Code = body.Error
		}
	}
	return out
}

// refresh renews the token once for all concurrent callers
func (g *gatewayImpl) refresh(ctx context.Context) (*external.RefreshResponse, error) {
	result, err, _ := g.refreshes.Do("refresh", func() (interface{}, error) {
		refreshToken, ok := g.tokens.RefreshToken()
		if !ok {
			return nil, errNoRefreshToken
		}

		var response external.RefreshResponse
		err := g.send(ctx, call{
			method: http.POST,
			path:   refreshPath,
			body:   external.RefreshRequest{RefreshToken: refreshToken},
			out:    &response,
		})
		if err != nil {
			return nil, err
		}
		if response.Token == "" {
			return nil, &Error{Message: "refresh returned no token", StatusCode: nethttp.StatusUnauthorized}
		}

		g.tokens.SetToken(response.Token, response.RefreshToken)
		return &response, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*external.RefreshResponse), nil
}

func (g *gatewayImpl) Login(ctx context.Context, credentials external.AuthCredentials) (*external.AuthResponse, error) {
	var response external.AuthResponse
	if err := g.do(ctx, call{method: http.POST, path: loginPath, body: credentials, out: &response}); err != nil {
		return nil, err
	}
	return &response, nil
}

func (g *gatewayImpl) Register(ctx context.Context, request external.RegisterRequest) (*external.RegisterResponse, error) {
	var response external.RegisterResponse
	if err := g.do(ctx, call{method: http.POST, path: registerPath, body: request, out: &response}); err != nil {
		return nil, err
	}
	return &response, nil
}

func (g *gatewayImpl) VerifyEmail(ctx context.Context, request external.VerifyEmailRequest) (*external.MessageResponse, error) {
	var response external.MessageResponse
	if err := g.do(ctx, call{method: http.POST, path: verifyEmailPath, body: request, out: &response}); err != nil {
		return nil, err
	}
	return &response, nil
}

func (g *gatewayImpl) Refresh(ctx context.Context) (*external.RefreshResponse, error) {
	return g.refresh(ctx)
}

func (g *gatewayImpl) Logout(ctx context.Context) error {
	return g.send(ctx, call{method: http.POST, path: logoutPath, body: map[string]string{}, authenticated: true})
}

func (g *gatewayImpl) GetCurrentWeather(ctx context.Context, query WeatherQuery) (*external.WeatherData, error) {
	var response external.DataResponse[external.WeatherData]
	err := g.do(ctx, call{method: http.GET, path: currentPath, query: query.params(), authenticated: true, out: &response})
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

func (g *gatewayImpl) GetForecast(ctx context.Context, query WeatherQuery, days int) ([]external.ForecastDay, error) {
	params := query.params()
	params["days"] = strconv.Itoa(days)

	var response external.DataResponse[[]external.ForecastDay]
	err := g.do(ctx, call{method: http.GET, path: forecastPath, query: params, authenticated: true, out: &response})
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (g *gatewayImpl) GetWeatherHistory(ctx context.Context) ([]model.WeatherHistoryItem, error) {
	var response external.DataResponse[[]model.WeatherHistoryItem]
	err := g.do(ctx, call{method: http.GET, path: historyPath, authenticated: true, out: &response})
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (g *gatewayImpl) GetUserProfile(ctx context.Context) (*external.APIUser, error) {
	var response external.APIUser
	if err := g.do(ctx, call{method: http.GET, path: profilePath, authenticated: true, out: &response}); err != nil {
		return nil, err
	}
	return &response, nil
}

func (g *gatewayImpl) UpdateUserProfile(ctx context.Context, updates external.ProfileUpdateRequest) (*external.APIUser, error) {
	var response external.APIUser
	err := g.do(ctx, call{method: http.PUT, path: profilePath, body: updates, authenticated: true, out: &response})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (g *gatewayImpl) DeleteUserProfile(ctx context.Context) (*external.MessageResponse, error) {
	var response external.MessageResponse
	err := g.do(ctx, call{method: http.DELETE, path: profilePath, body: map[string]string{}, authenticated: true, out: &response})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (g *gatewayImpl) HealthCheck(ctx context.Context) (*external.HealthResponse, error) {
	var response external.HealthResponse
	if err := g.do(ctx, call{method: http.GET, path: healthPath, out: &response}); err != nil {
		return nil, err
	}
	return &response, nil
}

func (g *gatewayImpl) SetToken(token string) {
	g.tokens.SetToken(token, "")
}

func (g *gatewayImpl) ClearToken() {
	g.tokens.ClearToken()
}

func (g *gatewayImpl) GetToken() (string, bool) {
	return g.tokens.Token()
}

func (g *gatewayImpl) IsAuthenticated() bool {
	_, ok := g.tokens.Token()
	return ok
}

func (q WeatherQuery) params() map[string]string {
	params := map[string]string{"city": q.City}
	if q.Lat != nil && q.Lon != nil {
		params["lat"] = strconv.FormatFloat(*q.Lat, 'f', -1, 64)
		params["lon"] = strconv.FormatFloat(*q.Lon, 'f', -1, 64)
	}
	return params
}
