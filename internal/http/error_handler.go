package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "file-drive/pkg/errors"
	"file-drive/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	msgInternalServerError = "Internal server error"
	unknownRequestID       = "unknown"
	unauthorizedRedirect   = "/"
)

// NewErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to HTTP status codes, hides internal errors from
// clients, and logs with the request id.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = unknownRequestID
		}

		// Anonymous access to a protected page goes back to the landing page.
		if errors.Is(err, apperrors.ErrUnauthorized) {
			if rErr := c.Redirect(http.StatusFound, unauthorizedRedirect); rErr != nil {
				log.Error("failed to redirect", zap.String("request_id", requestID), zap.Error(rErr))
			}
			return
		}

		code, message := statusFor(err)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("error", logger.SanitizeLogMessage(err.Error())),
		}
		if code >= http.StatusInternalServerError {
			log.Error("internal_server_error", fields...)
			message = msgInternalServerError
		} else {
			log.Warn("client_error", fields...)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]any{
				"error":      message,
				"request_id": requestID,
			})
		}
		if err != nil {
			log.Error("failed to write error response", zap.String("request_id", requestID), zap.Error(err))
		}
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError

	// Map sentinel errors to HTTP status codes
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, apperrors.ErrValidation):
		code = http.StatusBadRequest
		message = "Validation error"
	case errors.Is(err, apperrors.ErrDuplicateUsername):
		code = http.StatusBadRequest
		message = "Username taken"
	case errors.Is(err, apperrors.ErrConflict):
		code = http.StatusConflict
		message = "Resource already exists"
	case errors.Is(err, apperrors.ErrHasChildren):
		code = http.StatusConflict
		message = "Folder has subfolders"
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		code = http.StatusRequestEntityTooLarge
		message = "Payload too large"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		code = http.StatusUnauthorized
		message = "Invalid credentials"
	}

	// Use the message from AppError if it's a client error
	var appErr *apperrors.AppError
	if code < http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Message
	}

	return code, message
}
