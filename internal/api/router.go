package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/nestmart/shop-api/internal/api/handler"
	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Products ports.ProductService
	Verifier ports.TokenVerifier

	// Readiness checks reported by /health/ready, keyed by dependency name.
	Readiness map[string]handler.Check

	Log zerolog.Logger

	// Registry receives HTTP metrics. Nil uses the Prometheus default registry.
	Registry *prometheus.Registry
	Swagger  bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	promMiddleware, err := echoprometheus.MiddlewareConfig{
		Namespace:  "shop",
		Registerer: registerer,
	}.ToMiddleware()
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "metrics", Err: err}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(promMiddleware)

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	productHandler := handler.NewProductHandler(deps.Products)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	routes := []Route{
		{Method: http.MethodPost, Path: "/auth/login", Handler: authHandler.Login, Public: true},
		{Method: http.MethodGet, Path: "/auth/profile", Handler: authHandler.Profile},

		{Method: http.MethodPost, Path: "/users", Handler: userHandler.Register, Public: true},
		{Method: http.MethodGet, Path: "/users", Handler: userHandler.List, Roles: []string{"Admin", "Manager"}},
		{Method: http.MethodGet, Path: "/users/:id", Handler: userHandler.Get},
		{Method: http.MethodDelete, Path: "/users/:id", Handler: userHandler.Delete, Roles: []string{"Admin"}},

		{Method: http.MethodGet, Path: "/products", Handler: productHandler.List, Public: true},
		{Method: http.MethodGet, Path: "/products/:id", Handler: productHandler.Get, Public: true},
		{Method: http.MethodPost, Path: "/products", Handler: productHandler.Create, Roles: []string{"Admin"}},

		// --- Health probes (no auth required) ---
		{Method: http.MethodGet, Path: "/health", Handler: healthHandler.Liveness, Public: true},
		{Method: http.MethodGet, Path: "/health/ready", Handler: readinessHandler.Readiness, Public: true},
		{Method: http.MethodGet, Path: "/metrics", Handler: echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}), Public: true},
	}
	if deps.Swagger {
		routes = append(routes, Route{Method: http.MethodGet, Path: "/swagger/*", Handler: echoSwagger.WrapHandler, Public: true})
	}

	if err := Register(e, deps.Verifier, routes); err != nil {
		return nil, err
	}
	return e, nil
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
