package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is free text; only Delivered has special meaning.
type Status string

const (
	StatusCreated    Status = "Created"
	StatusProcessing Status = "Processing"
	// StatusDelivered is terminal and splits pending from delivered listings.
	StatusDelivered Status = "Delivered"
)

// LineItem is one ordered product. ID is the cart entry it came from.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	OrderInfo []LineItem      `json:"orderInfo"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CartIDs returns the cart entry ids referenced by the line items.
func (o *Order) CartIDs() []string {
	ids := make([]string, 0, len(o.OrderInfo))
	for _, item := range o.OrderInfo {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Subtotal sums price times quantity over the line items.
func (o *Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.OrderInfo {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// PlaceResult reports the inserted order and how many cart entries were
// cleared with it.
type PlaceResult struct {
	InsertedID   string `json:"insertedId"`
	OrderID      string `json:"orderId"`
	DeletedCount int64  `json:"deletedCount"`
}
