package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/nestmart/shop-api/internal/api/metrics"
	"github.com/nestmart/shop-api/internal/core/domain"
)

// RequireRoles runs the authorization gate against the identity set by Auth.
// An empty set admits any authenticated caller. It must be installed after
// Auth; without an identity it fails with domain.ErrUnauthenticated.
func RequireRoles(required domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get(IdentityKey).(domain.Identity)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !domain.Allow(id, required) {
				metrics.AuthorizationDecisionsTotal.WithLabelValues("deny").Inc()
				return domain.ErrForbidden
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
