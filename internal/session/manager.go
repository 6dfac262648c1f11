package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"file-drive/internal/config"
	"file-drive/internal/domain/user"
	apperrors "file-drive/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserFinder rehydrates the session user on every request so a deleted
// account loses access immediately.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Manager keeps the signed session token in an HttpOnly cookie. SameSite=Lax
// keeps the cookie off cross-site form posts.
type Manager struct {
	tokens       *TokenService
	revocations  RevocationList
	users        UserFinder
	cookieName   string
	cookieSecure bool
	logger       *zap.Logger
}

// NewManager accepts a nil revocations list; logout then only clears the
// cookie.
func NewManager(tokens *TokenService, revocations RevocationList, users UserFinder, cfg *config.SessionConfig, logger *zap.Logger) *Manager {
	return &Manager{
		tokens:       tokens,
		revocations:  revocations,
		users:        users,
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		logger:       logger,
	}
}

func (m *Manager) Login(c echo.Context, u *user.User) error {
	token, claims, err := m.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return err
	}

	c.SetCookie(m.cookie(token, claims.ExpiresAt.Time))
	return nil
}

func (m *Manager) Logout(c echo.Context) error {
	defer c.SetCookie(m.cookie("", time.Unix(0, 0)))

	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := m.tokens.Verify(cookie.Value)
	if err != nil || m.revocations == nil {
		return nil
	}

	if err := m.revocations.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf(msgFailedRevokeSession, err)
	}

	return nil
}

// Current returns the claims of a valid, unrevoked session cookie, or nil
// when the request carries none.
func (m *Manager) Current(c echo.Context) (*Claims, error) {
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := m.tokens.Verify(cookie.Value)
	if err != nil {
		m.logger.Debug("rejected session token", zap.Error(err))
		return nil, nil
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(c.Request().Context(), claims.ID)
		if err != nil {
			return nil, fmt.Errorf(msgFailedCheckRevocation, err)
		}
		if revoked {
			return nil, nil
		}
	}

	return claims, nil
}

// RequireSession redirects anonymous requests to the landing page.
func (m *Manager) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.Current(c)
			if err != nil {
				return err
			}
			if claims == nil {
				return c.Redirect(http.StatusFound, landingPath)
			}

			u, err := m.users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return fmt.Errorf(msgFailedLoadSessionUser, err)
			}
			if u == nil {
				c.SetCookie(m.cookie("", time.Unix(0, 0)))
				return c.Redirect(http.StatusFound, landingPath)
			}

			c.Set(ContextKeyUserID, u.ID)
			c.Set(ContextKeyUser, u)

			return next(c)
		}
	}
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     cookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID := c.Get(ContextKeyUserID)
	if userID == nil {
		return uuid.Nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalServer(msgInvalidUserIDCtx, nil)
	}

	return id, nil
}

func GetUser(c echo.Context) *user.User {
	u, _ := c.Get(ContextKeyUser).(*user.User)
	return u
}
