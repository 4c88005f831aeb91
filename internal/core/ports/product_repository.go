package ports

import (
	"context"

	"github.com/nestmart/shop-api/internal/core/domain"
)

// ProductRepository persists catalog entries. Reads populate Product.Creator.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

// IdempotencyStore remembers which product a client request key produced.
// Reserve claims a key before the product is created so that only one
// request per key can create; a reserved key without an id is not found by
// Lookup.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (int64, bool, error)
	Reserve(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key string, productID int64) error
	Release(ctx context.Context, scope, key string) error
}
