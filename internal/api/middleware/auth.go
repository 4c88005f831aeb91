package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nestmart/shop-api/internal/api/metrics"
	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

// IdentityKey is the echo.Context key holding the caller's domain.Identity.
const IdentityKey = "identity"

// Auth verifies the bearer token and attaches the identity to both the echo
// context and the request context. Every failure is domain.ErrUnauthenticated.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, result := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				return domain.ErrUnauthenticated
			}

			id, err := verifier.Verify(token)
			if err != nil {
				result = "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				return fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(IdentityKey, id)
			c.SetRequest(c.Request().WithContext(domain.WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}

// bearerToken extracts the credential from "Bearer <token>". The scheme is
// matched case-insensitively. On failure it returns "" and the reason.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", "malformed"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "malformed"
	}
	return token, ""
}
