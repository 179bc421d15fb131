package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

// RequirePermission gates a route on membership in the caller's permission
// set, as injected by Auth. This is the fine-grained check governing catalog
// feature access; role is deliberately not consulted here.
func RequirePermission(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			perms, _ := c.Get("permissions").(map[string]struct{})
			if _, ok := perms[string(perm)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "missing permission: " + string(perm)})
			}
			return next(c)
		}
	}
}
