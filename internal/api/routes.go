package api

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/nestmart/shop-api/internal/api/middleware"
	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

// Route declares one endpoint and its access rule. A non-public route with
// no Roles admits any authenticated caller.
type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Public  bool
	Roles   []string
}

// Register validates the whole table before adding anything to e. Protected
// routes get the pipeline Auth -> RequireRoles -> handler. An unknown role
// name or a public route with roles is a *domain.ConfigurationError.
func Register(e *echo.Echo, verifier ports.TokenVerifier, routes []Route) error {
	type compiled struct {
		route Route
		roles domain.RoleSet
	}

	table := make([]compiled, 0, len(routes))
	for _, r := range routes {
		field := fmt.Sprintf("route %s %s", r.Method, r.Path)
		if r.Handler == nil {
			return &domain.ConfigurationError{Field: field, Err: errors.New("nil handler")}
		}
		if r.Public && len(r.Roles) > 0 {
			return &domain.ConfigurationError{Field: field, Err: errors.New("public route cannot require roles")}
		}
		roles, err := domain.ParseRoles(r.Roles...)
		if err != nil {
			return &domain.ConfigurationError{Field: field, Err: err}
		}
		table = append(table, compiled{route: r, roles: roles})
	}

	for _, c := range table {
		if c.route.Public {
			e.Add(c.route.Method, c.route.Path, c.route.Handler)
			continue
		}
		e.Add(c.route.Method, c.route.Path, c.route.Handler,
			middleware.Auth(verifier),
			middleware.RequireRoles(c.roles),
		)
	}
	return nil
}
