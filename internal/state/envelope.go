package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weather-client/pkg/log"
	"weather-client/pkg/msg"
)

const (
	OpSetLocation         = "weather/setLocation"
	OpFetchCurrentWeather = "weather/fetchCurrentWeather"
	OpFetchForecast       = "weather/fetchForecast"
	OpSearchWeather       = "weather/searchWeatherByLocation"
	OpGetWeatherHistory   = "weather/getWeatherHistory"
	OpSearchLocations     = "search/searchLocations"
	OpRegister            = "auth/register"
	OpVerifyEmail         = "auth/verifyEmail"
	OpLogin               = "auth/login"
	OpRestoreSession      = "auth/restoreSession"
	OpLoadCurrentUser     = "auth/loadCurrentUser"
	OpLogout              = "auth/logout"
	OpDeleteProfile       = "auth/deleteProfile"
	OpUpdateProfile       = "auth/updateProfile"
	OpResendVerification  = "auth/resendVerification"
	OpRefreshSession      = "auth/refreshSession"
)

// operationDefaults holds the message key and error code used when a failure carries none.
var operationDefaults = map[string]struct {
	messageKey string
	code       string
}{
	OpSetLocation:         {"weather.error.set-location", "LOCATION_ERROR"},
	OpFetchCurrentWeather: {"weather.error.current", "CURRENT_WEATHER_ERROR"},
	OpFetchForecast:       {"weather.error.forecast", "FORECAST_ERROR"},
	OpSearchWeather:       {"weather.error.search", "SEARCH_WEATHER_ERROR"},
	OpGetWeatherHistory:   {"weather.error.history", "HISTORY_ERROR"},
	OpSearchLocations:     {"search.error.failed", "SEARCH_ERROR"},
	OpRegister:            {"auth.error.register", "REGISTRATION_ERROR"},
	OpVerifyEmail:         {"auth.error.verify", "VERIFICATION_ERROR"},
	OpLogin:               {"auth.error.login", "LOGIN_ERROR"},
	OpRestoreSession:      {"auth.error.restore", "RESTORE_SESSION_ERROR"},
	OpLoadCurrentUser:     {"auth.error.load-user", "LOAD_USER_ERROR"},
	OpLogout:              {"auth.error.logout", "LOGOUT_ERROR"},
	OpDeleteProfile:       {"auth.error.delete-profile", "DELETE_PROFILE_ERROR"},
	OpUpdateProfile:       {"auth.error.update-profile", "UPDATE_PROFILE_ERROR"},
	OpResendVerification:  {"auth.error.resend", "RESEND_VERIFICATION_ERROR"},
	OpRefreshSession:      {"auth.error.refresh", "REFRESH_ERROR"},
}

// OperationError is the failure carried by a rejected action. Message is never empty.
type OperationError struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

func (e *OperationError) Error() string {
	return e.Message
}

// Reject builds a precondition failure that never reached the network.
func Reject(message, code string) *OperationError {
	return &OperationError{Message: message, Code: code}
}

// codedError is implemented by transport errors that know their API code and HTTP status.
type codedError interface {
	error
	ErrorCode() string
	HTTPStatus() int
}

// Pending is dispatched before an operation starts.
type Pending struct {
	Op        string
	RequestID string
	Arg       any
}

func (a Pending) Type() string { return a.Op + "/pending" }

// Fulfilled is dispatched after an operation succeeded.
type Fulfilled struct {
	Op        string
	RequestID string
	Payload   any
}

func (a Fulfilled) Type() string { return a.Op + "/fulfilled" }

// Rejected is dispatched after an operation failed.
type Rejected struct {
	Op        string
	RequestID string
	Err       *OperationError
}

func (a Rejected) Type() string { return a.Op + "/rejected" }

// FallbackMessage returns the message used for op when the failure has none.
func FallbackMessage(op string) string {
	if d, ok := operationDefaults[op]; ok {
		return msg.GetMessage(d.messageKey)
	}
	return fmt.Sprintf("%s failed", op)
}

// ToOperationError normalizes any failure of op into an OperationError with a message.
func ToOperationError(op string, err error) *OperationError {
	defaults := operationDefaults[op]

	var opErr *OperationError
	if errors.As(err, &opErr) {
		out := *opErr
		if out.Message == "" {
			out.Message = FallbackMessage(op)
		}
		if out.Code == "" {
			out.Code = defaults.code
		}
		return &out
	}

	out := &OperationError{Code: defaults.code}
	var coded codedError
	if errors.As(err, &coded) {
		out.Message = coded.Error()
		out.StatusCode = coded.HTTPStatus()
		if code := coded.ErrorCode(); code != "" {
			out.Code = code
		}
	} else if err != nil {
		out.Message = err.Error()
	}
	if out.Message == "" {
		out.Message = FallbackMessage(op)
	}
	return out
}

// RunAsync wraps fn in the pending/fulfilled/rejected lifecycle. Pending is committed
// before fn runs and exactly one settlement is committed after fn returns. A panic in fn
// settles as a rejection.
func RunAsync[R any](ctx context.Context, dispatcher Dispatcher, op string, arg any, fn func(ctx context.Context) (R, error)) (result R, err error) {
	requestID := uuid.New().String()
	dispatcher.Dispatch(Pending{Op: op, RequestID: requestID, Arg: arg})

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered panic in async operation",
				zap.String("op", op),
				zap.String("request_id", requestID),
				zap.Any("panic", r))
			opErr := ToOperationError(op, fmt.Errorf("%v", r))
			var zero R
			result, err = zero, opErr
			dispatcher.Dispatch(Rejected{Op: op, RequestID: requestID, Err: opErr})
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		opErr := ToOperationError(op, err)
		log.Debug("Async operation rejected",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.String("error", opErr.Message))
		dispatcher.Dispatch(Rejected{Op: op, RequestID: requestID, Err: opErr})
		var zero R
		return zero, opErr
	}

	dispatcher.Dispatch(Fulfilled{Op: op, RequestID: requestID, Payload: result})
	return result, nil
}
