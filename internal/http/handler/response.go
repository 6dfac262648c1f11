package handler

import (
	"net/http"
	"net/url"
	"strings"

	apperrors "file-drive/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

// redirectBack honours returnTo, then the Referer, then fallback. Only paths
// on this site are followed, and paths starting with any of skip are
// ignored so a delete never lands on the page of what it removed.
func redirectBack(c echo.Context, fallback string, skip ...string) error {
	candidates := []string{
		c.FormValue(formReturnTo),
		refererPath(c.Request()),
	}

	for _, target := range candidates {
		if isLocalPath(target) && !hasAnyPrefix(target, skip) {
			return c.Redirect(http.StatusSeeOther, target)
		}
	}

	return c.Redirect(http.StatusSeeOther, fallback)
}

func refererPath(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != r.Host {
		return ""
	}

	return u.RequestURI()
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") &&
		!strings.HasPrefix(p, "//") &&
		!strings.HasPrefix(p, "/\\") &&
		!strings.ContainsAny(p, "\r\n")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if s == p || strings.HasPrefix(s, p+"/") || strings.HasPrefix(s, p+"?") {
			return true
		}
	}
	return false
}

func parseID(c echo.Context, param, invalidMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperrors.Validation(invalidMsg)
	}
	return id, nil
}

func folderPath(id uuid.UUID) string {
	return pathDrive + "/" + id.String()
}

func filePath(id uuid.UUID) string {
	return pathFiles + "/" + id.String()
}
