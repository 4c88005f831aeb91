package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

type stubAuthService struct {
	signInFn func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	return s.signInFn(ctx, email, password)
}

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterUserInput) (*domain.UserView, error)
	getFn      func(ctx context.Context, id int64) (*domain.UserView, error)
	listFn     func(ctx context.Context) ([]domain.UserView, error)
	deleteFn   func(ctx context.Context, id int64) error
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.UserView, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, id int64) (*domain.UserView, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context) ([]domain.UserView, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubProductService struct {
	createFn func(ctx context.Context, creator domain.Identity, in ports.CreateProductInput) (*ports.ProductResult, error)
	getFn    func(ctx context.Context, id int64) (*domain.Product, error)
	listFn   func(ctx context.Context) ([]*domain.Product, error)
}

func (s *stubProductService) Create(ctx context.Context, creator domain.Identity, in ports.CreateProductInput) (*ports.ProductResult, error) {
	return s.createFn(ctx, creator, in)
}

func (s *stubProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.listFn(ctx)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withIdentity simulates the Auth middleware having run.
func withIdentity(c echo.Context, id domain.Identity) {
	c.SetRequest(c.Request().WithContext(domain.WithIdentity(c.Request().Context(), id)))
}

func expectHTTPError(err error, code int) bool {
	he, ok := err.(*echo.HTTPError)
	return ok && he.Code == code
}

