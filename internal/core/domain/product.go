package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry linked to the user who created it. Creator is
// populated by repositories on read.
type Product struct {
	ID        int64
	Title     string
	Price     decimal.Decimal
	IsActive  bool
	CreatorID int64
	Creator   *UserView
	CreatedAt time.Time
}
