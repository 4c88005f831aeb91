package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nestmart/shop-api/internal/core/domain"
)

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// productRow is a product joined with its (possibly deleted) creator.
type productRow struct {
	ID               int64           `db:"id"`
	Title            string          `db:"title"`
	Price            decimal.Decimal `db:"price"`
	IsActive         bool            `db:"is_active"`
	CreatorID        sql.NullInt64   `db:"creator_id"`
	CreatedAt        time.Time       `db:"created_at"`
	CreatorName      sql.NullString  `db:"creator_name"`
	CreatorEmail     sql.NullString  `db:"creator_email"`
	CreatorRole      sql.NullString  `db:"creator_role"`
	CreatorCreatedAt sql.NullTime    `db:"creator_created_at"`
}

func (r productRow) toDomain() *domain.Product {
	p := &domain.Product{
		ID:        r.ID,
		Title:     r.Title,
		Price:     r.Price,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.CreatorID.Valid {
		p.CreatorID = r.CreatorID.Int64
	}
	if r.CreatorID.Valid && r.CreatorEmail.Valid {
		p.Creator = &domain.UserView{
			ID:        r.CreatorID.Int64,
			Name:      r.CreatorName.String,
			Email:     r.CreatorEmail.String,
			Role:      domain.Role(r.CreatorRole.String),
			CreatedAt: r.CreatorCreatedAt.Time.UTC(),
		}
	}
	return p
}

const productSelect = `
	SELECT p.id, p.title, p.price, p.is_active, p.creator_id, p.created_at,
	       u.name AS creator_name, u.email AS creator_email,
	       u.role AS creator_role, u.created_at AS creator_created_at
	  FROM products p
	  LEFT JOIN users u ON u.id = p.creator_id`

// Create inserts the product. The returned value carries no Creator; the
// caller already holds it.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	var row productRow
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO products (title, price, is_active, creator_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, price, is_active, creator_id, created_at`,
		p.Title, p.Price, p.IsActive, p.CreatorID, p.CreatedAt,
	).StructScan(&row)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row productRow
	if err := r.db.GetContext(ctx, &row, productSelect+` WHERE p.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, productSelect+` ORDER BY p.id`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*domain.Product, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
