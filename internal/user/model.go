package user

import (
	"fmt"
	"time"
)

// Role is the authorization level of a user. The zero value is a regular
// customer.
type Role string

const (
	RoleCustomer Role = ""
	RoleAdmin    Role = "admin"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Number    string    `json:"number"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateFields is a partial update; nil fields are left untouched.
type UpdateFields struct {
	Name   *string
	Image  *string
	Number *string
	Role   *Role
}

func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil && f.Image == nil && f.Number == nil && f.Role == nil
}
