package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	// The drive serves JSON and attachments only.
	contentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'self'"
	permissionsPolicy     = "geolocation=(), microphone=(), camera=(), payment=(), usb=()"
)

// SecurityHeaders adds security headers to all responses
func SecurityHeaders(hsts bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			h.Set(echo.HeaderXContentTypeOptions, "nosniff")
			h.Set(echo.HeaderXFrameOptions, "DENY")
			h.Set(echo.HeaderReferrerPolicy, "same-origin")
			h.Set("Permissions-Policy", permissionsPolicy)

			// Only meaningful when the session cookie is Secure as well
			if hsts {
				h.Set(echo.HeaderStrictTransportSecurity, "max-age=31536000; includeSubDomains")
			}

			h.Del(echo.HeaderServer)

			return next(c)
		}
	}
}
