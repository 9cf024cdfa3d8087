package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

// Audit records every mutating request of the group it is attached to,
// including rejected ones, once the response status is known.
func Audit(recorder ports.ActivityRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}

			if err := next(c); err != nil {
				c.Error(err)
			}

			activity := domain.Activity{
				Action:     domain.ActionAdminMutation,
				Target:     method + " " + c.Request().URL.Path,
				StatusCode: c.Response().Status,
			}
			if claims, ok := ClaimsFrom(c); ok {
				activity.Actor = claims.Email
				activity.Role = claims.Role
			}
			recorder.Record(activity)
			return nil
		}
	}
}
