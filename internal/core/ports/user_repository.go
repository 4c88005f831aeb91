package ports

import (
	"context"

	"github.com/nestmart/shop-api/internal/core/domain"
)

// UserRepository is the credential store. Implementations must enforce email
// uniqueness and return domain.ErrUserExists / domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
