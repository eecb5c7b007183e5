package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Role is the kind of party an authenticated caller acts as.
type Role string

const (
	RoleSupplier Role = "supplier"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// RoleFromString parses a token or stored role value.
func RoleFromString(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleSupplier, RoleCustomer, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the caller of an operation. For suppliers and customers ID is the
// party (organisation) id the caller belongs to; for admins it is the user id.
type Actor struct {
	Role Role
	ID   int64
}

// NewActor validates the role and requires a positive id.
func NewActor(role Role, id int64) (Actor, error) {
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if id <= 0 {
		return Actor{}, errs.NewValueIsOutOfRangeError("actor id", id, 1, "unbounded")
	}
	return Actor{Role: role, ID: id}, nil
}

func (a Actor) IsSupplier() bool { return a.Role == RoleSupplier }
func (a Actor) IsCustomer() bool { return a.Role == RoleCustomer }
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Role, a.ID)
}
