package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock holds the available quantity per size.
type Stock struct {
	S  int `json:"S"`
	M  int `json:"M"`
	L  int `json:"L"`
	XL int `json:"XL"`
}

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Gender      string          `json:"gender"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    Stock           `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Filter narrows product listings. Empty fields do not filter.
type Filter struct {
	Search   string
	Category string
	Gender   string
	// ExcludeID drops one product from the result.
	ExcludeID string
}

type UpdateFields struct {
	Title       *string
	Description *string
	Gender      *string
	Category    *string
	Price       *decimal.Decimal
	Image       *string
	Quantity    *Stock
}

func (f UpdateFields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Gender == nil &&
		f.Category == nil && f.Price == nil && f.Image == nil && f.Quantity == nil
}
