package ports

import (
	"context"

	"github.com/nestmart/shop-api/internal/core/domain"
)

// RegisterUserInput carries the registration payload. Password is plaintext
// and must not outlive the call.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.UserView, error)
	Get(ctx context.Context, id int64) (*domain.UserView, error)
	List(ctx context.Context) ([]domain.UserView, error)
	Delete(ctx context.Context, id int64) error
}
