package address

import "time"

// Address is the single shipping address kept per user email.
type Address struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	House     string    `json:"house"`
	Road      string    `json:"road"`
	Area      string    `json:"area"`
	City      string    `json:"city"`
	Details   string    `json:"details"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fields is a partial address; nil fields keep their stored value (or the
// empty string when the address is created by the upsert).
type Fields struct {
	Name    *string
	House   *string
	Road    *string
	Area    *string
	City    *string
	Details *string
}

func (f Fields) IsEmpty() bool {
	return f.Name == nil && f.House == nil && f.Road == nil &&
		f.Area == nil && f.City == nil && f.Details == nil
}

type column struct {
	name  string
	value *string
}

func (f Fields) columns() []column {
	return []column{
		{"name", f.Name},
		{"house", f.House},
		{"road", f.Road},
		{"area", f.Area},
		{"city", f.City},
		{"details", f.Details},
	}
}
