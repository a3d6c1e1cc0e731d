package sequence

import (
	"errors"
	"time"
)

var ErrInvalidKind = errors.New("invalid sequence kind")

// Kind names the counter a sequence record holds.
type Kind string

const (
	KindProductCode Kind = "productCode"
	KindOrderID     Kind = "orderId"
)

func (k Kind) Valid() bool {
	return k == KindProductCode || k == KindOrderID
}

// Record is a stored counter value, used by the front-end to hand out the
// next product code or order number.
type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Value     int64     `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
