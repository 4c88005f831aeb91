package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nestmart/shop-api/internal/core/domain"
)

// CreateProductInput carries the data needed to create a product.
type CreateProductInput struct {
	Title string
	Price decimal.Decimal
	// IdempotencyKey is optional; a repeated key from the same creator
	// returns the product created the first time.
	IdempotencyKey string
}

// ProductResult is returned by Create.
type ProductResult struct {
	Product *domain.Product
	// AlreadyExisted is true when the idempotency key matched an earlier request.
	AlreadyExisted bool
}

type ProductService interface {
	Create(ctx context.Context, creator domain.Identity, input CreateProductInput) (*ProductResult, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}
