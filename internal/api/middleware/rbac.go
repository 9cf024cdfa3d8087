package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// RBAC enforces role-based access control on the role set by Auth.
// A request without claims is rejected like any other role mismatch.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}

// RequireAdmin is the role gate of the admin-only routes.
func RequireAdmin() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
