package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

// Prices are stored as NUMERIC(12,2).
const priceScale = 2

var maxPrice = decimal.New(1, 10)

type ProductService struct {
	products ports.ProductRepository
	users    ports.UserRepository
	idem     ports.IdempotencyStore
	log      zerolog.Logger
}

// NewProductService builds the catalog service. idem may be nil, in which
// case idempotency keys are ignored.
func NewProductService(products ports.ProductRepository, users ports.UserRepository, idem ports.IdempotencyStore, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, users: users, idem: idem, log: log}
}

// Create persists a product owned by the calling identity. If an idempotency
// key is provided and already seen for this creator, the previously created
// product is returned without side effects.
func (s *ProductService) Create(ctx context.Context, creator domain.Identity, in ports.CreateProductInput) (*ports.ProductResult, error) {
	scope := "product:" + strconv.FormatInt(creator.UserID, 10)
	useKey := in.IdempotencyKey != "" && s.idem != nil

	if useKey {
		if res, ok := s.replay(ctx, scope, in.IdempotencyKey); ok {
			return res, nil
		}
	}

	title := strings.TrimSpace(in.Title)
	if len(title) < 2 {
		return nil, &domain.ValidationError{Field: "title", Message: "must be at least 2 characters"}
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	// The token may outlive its subject.
	owner, err := s.users.FindByID(ctx, creator.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	reserved := false
	if useKey {
		reserved, err = s.idem.Reserve(ctx, scope, in.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency reserve failed, creating anyway")
		} else if !reserved {
			// Lost the race: either the winner already finished or it is
			// still creating.
			if res, ok := s.replay(ctx, scope, in.IdempotencyKey); ok {
				return res, nil
			}
			return nil, domain.ErrIdempotencyConflict
		}
	}

	created, err := s.products.Create(ctx, &domain.Product{
		Title:     title,
		Price:     in.Price,
		IsActive:  true,
		CreatorID: owner.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create product")
		if reserved {
			if rerr := s.idem.Release(ctx, scope, in.IdempotencyKey); rerr != nil {
				s.log.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}
	view := owner.View()
	created.Creator = &view

	if useKey {
		if err := s.idem.Remember(ctx, scope, in.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	s.log.Info().Int64("product_id", created.ID).Int64("creator_id", owner.ID).Msg("product created")
	return &ports.ProductResult{Product: created}, nil
}

// replay returns the product previously created under key, if it can be read.
func (s *ProductService) replay(ctx context.Context, scope, key string) (*ports.ProductResult, bool) {
	id, found, err := s.idem.Lookup(ctx, scope, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil, false
	}
	if !found {
		return nil, false
	}
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("product_id", id).Msg("remembered product not readable, creating anyway")
		return nil, false
	}
	s.log.Info().Str("idempotency_key", key).Int64("product_id", id).Msg("idempotent replay")
	return &ports.ProductResult{Product: existing, AlreadyExisted: true}, true
}

func validatePrice(p decimal.Decimal) error {
	switch {
	case !p.IsPositive():
		return &domain.ValidationError{Field: "price", Message: "must be greater than 0"}
	case !p.Equal(p.Truncate(priceScale)):
		return &domain.ValidationError{Field: "price", Message: "must have at most 2 decimal places"}
	case p.GreaterThanOrEqual(maxPrice):
		return &domain.ValidationError{Field: "price", Message: "must be less than " + maxPrice.String()}
	}
	return nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}
