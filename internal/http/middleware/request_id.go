package middleware

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = echo.HeaderXRequestID
	// RequestIDContextKey is the context key for request ID
	RequestIDContextKey = "request_id"
)

// Incoming ids are echoed into logs and headers, so only short opaque
// tokens are accepted.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID returns a middleware that generates or extracts a request ID
// and adds it to the response headers and context
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if !requestIDPattern.MatchString(requestID) {
				requestID = uuid.New().String()
			}

			c.Set(RequestIDContextKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from the context
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}
