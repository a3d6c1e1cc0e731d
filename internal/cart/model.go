package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one product and size in a user's cart. A user holds at most one
// entry per product and size.
type Entry struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
}
