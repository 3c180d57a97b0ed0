package http

import (
	"strings"

	"go.uber.org/zap"

	"weather-client/pkg/log"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent with all request data formed
	LogRequest(method, url string, headers map[string]string, body string)

	// LogResponseSuccess is called immediately after receiving a successful response (non-error HTTP status)
	LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64)

	// LogResponseError is called immediately after receiving an error response or a transport failure
	LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error)

	// LogRequestRetry is called when backoff exists and a retry attempt is about to be made
	LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int)
}

// NoopHTTPLogger discards everything.
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) LogRequest(string, string, map[string]string, string) {}
func (NoopHTTPLogger) LogResponseSuccess(string, string, map[string]string, string, int, string, int64) {
}
func (NoopHTTPLogger) LogResponseError(string, string, map[string]string, string, int, string, int64, error) {
}
func (NoopHTTPLogger) LogRequestRetry(string, string, map[string]string, string, int, string, int64, error, int, int) {
}

// ZapHTTPLogger writes HTTP traffic through pkg/log. Bodies are logged at debug level only
// and credentials in headers are masked.
type ZapHTTPLogger struct{}

var _ HTTPLogger = ZapHTTPLogger{}

func (ZapHTTPLogger) LogRequest(method, url string, headers map[string]string, body string) {
	log.Debug("HTTP request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Any("headers", maskHeaders(headers)),
		zap.String("body", maskBody(body)))
}

func (ZapHTTPLogger) LogResponseSuccess(method, url string, _ map[string]string, _ string, httpStatus int, _ string, latency int64) {
	log.Info("HTTP response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency))
}

func (ZapHTTPLogger) LogResponseError(method, url string, _ map[string]string, _ string, httpStatus int, responseBody string, latency int64, err error) {
	log.Warn("HTTP response error",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.String("response", responseBody),
		zap.Int64("latency_ms", latency),
		zap.Error(err))
}

func (ZapHTTPLogger) LogRequestRetry(method, url string, _ map[string]string, _ string, httpStatus int, _ string, _ int64, err error, retryCount, maxRetries int) {
	log.Warn("HTTP request retry",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int("retry", retryCount),
		zap.Int("max_retries", maxRetries),
		zap.Error(err))
}

func maskHeaders(headers map[string]string) map[string]string {
	masked := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") {
			v = "***"
		}
		masked[k] = v
	}
	return masked
}

// maskBody hides request bodies carrying secrets
func maskBody(body string) string {
	if strings.Contains(body, "password") || strings.Contains(body, "refreshToken") {
		return "***"
	}
	return body
}
