package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/catalog-admin/internal/api/metrics"
	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

// Context keys populated by Auth.
const (
	ClaimsKey = "claims"
	RoleKey   = "role"
	UserIDKey = "user_id"
)

const bearerPrefix = "Bearer "

// Auth verifies the bearer token and injects its claims into the context.
// It never touches the credential store.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Error())
			}

			claims, err := verifier.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenRejectionsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ClaimsKey, claims)
			c.Set(RoleKey, claims.Role)
			c.Set(UserIDKey, claims.PrincipalID)

			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Auth, if any.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}
