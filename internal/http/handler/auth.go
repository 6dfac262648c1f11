package handler

import (
	"net/http"
	"strings"

	"file-drive/internal/audit"
	"file-drive/internal/domain/user"
	apperrors "file-drive/pkg/errors"
	"file-drive/pkg/password"
	"file-drive/pkg/validator"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const dummyPassword = "not-a-real-password"

type AuthHandler struct {
	users     UserStore
	sessions  SessionStarter
	audit     Auditor
	hashCost  int
	dummyHash string
	logger    *zap.Logger
}

// NewAuthHandler hashes a throwaway password at hashCost so failed lookups
// spend the same bcrypt time as a wrong password.
func NewAuthHandler(users UserStore, sessions SessionStarter, auditor Auditor, hashCost int, logger *zap.Logger) (*AuthHandler, error) {
	dummyHash, err := password.HashWithCost(dummyPassword, hashCost)
	if err != nil {
		return nil, err
	}

	return &AuthHandler{
		users:     users,
		sessions:  sessions,
		audit:     auditor,
		hashCost:  hashCost,
		dummyHash: dummyHash,
		logger:    logger,
	}, nil
}

type pageResponse struct {
	Page string `json:"page"`
}

func (h *AuthHandler) Landing(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{Page: pageIndex})
}

func (h *AuthHandler) SignUpForm(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{Page: pageSignUp})
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue(formUsername))
	pw := c.FormValue(formPassword)

	if err := validator.Username(username); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := validator.Password(pw); err != nil {
		return apperrors.Validation(err.Error())
	}

	hash, err := password.HashWithCost(pw, h.hashCost)
	if err != nil {
		return err
	}

	u, err := h.users.Create(c.Request().Context(), user.CreateUserInput{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	h.audit.Record(c, audit.ResourceTypeUser, &u.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"username": u.Username,
	})
	return c.Redirect(http.StatusSeeOther, pathLanding)
}

func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue(formUsername))
	pw := c.FormValue(formPassword)

	if username == "" || pw == "" {
		password.Verify(pw, h.dummyHash)
		return h.loginFailed(c, username)
	}

	u, err := h.users.FindByUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	if u == nil {
		password.Verify(pw, h.dummyHash)
		return h.loginFailed(c, username)
	}

	if !password.Verify(pw, u.PasswordHash) {
		return h.loginFailed(c, username)
	}

	if err := h.sessions.Login(c, u); err != nil {
		return err
	}

	h.audit.Record(c, audit.ResourceTypeSession, &u.ID, audit.ActionLogin, audit.StatusSuccess, nil)

	return c.Redirect(http.StatusSeeOther, pathAfterLogin)
}

func (h *AuthHandler) AfterLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, pathDrive)
}

// Logout always clears the cookie; a revocation failure is only logged.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c); err != nil {
		h.logger.Warn("failed to revoke session", zap.Error(err))
	}
	h.audit.Record(c, audit.ResourceTypeSession, nil, audit.ActionLogout, audit.StatusSuccess, nil)
	return c.Redirect(http.StatusSeeOther, pathLanding)
}

func (h *AuthHandler) loginFailed(c echo.Context, username string) error {
	h.audit.Record(c, audit.ResourceTypeSession, nil, audit.ActionLogin, audit.StatusFailure, map[string]any{
		"username": username,
	})
	return c.Redirect(http.StatusSeeOther, pathLanding)
}
