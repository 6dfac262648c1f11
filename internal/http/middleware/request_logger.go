package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger writes one zap line per request. Errors are handed to the
// echo error handler first so the logged status is the one the client saw.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			level := zapcore.InfoLevel
			switch {
			case res.Status >= 500:
				level = zapcore.ErrorLevel
			case res.Status >= 400:
				level = zapcore.WarnLevel
			}

			if ce := log.Check(level, "request"); ce != nil {
				ce.Write(
					zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
					zap.String("method", req.Method),
					zap.String("uri", req.RequestURI),
					zap.String("route", c.Path()),
					zap.Int("status", res.Status),
					zap.Int64("bytes_out", res.Size),
					zap.Duration("latency", time.Since(start)),
					zap.String("remote_ip", c.RealIP()),
				)
			}

			return nil
		}
	}
}
