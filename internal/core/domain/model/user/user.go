// Package user provides the User aggregate. Password hashing and
// authentication happen elsewhere; the aggregate only keeps the hash.
package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

// ErrUserIsNotConstructed is returned when a User was not created through NewUser or RestoreUser.
var ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

// Role is the authorization role of a user.
type Role int

const (
	// UnknownRole catches uninitialized values.
	UnknownRole Role = iota
	Customer
	Admin
)

func (r Role) String() string {
	switch r {
	case Customer:
		return "customer"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole converts a persisted role name.
func ParseRole(s string) (Role, error) {
	switch s {
	case "customer":
		return Customer, nil
	case "admin":
		return Admin, nil
	default:
		return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
	}
}

// NormalizeEmail lowercases and trims an address so uniqueness checks compare like with like.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User is a registered customer or administrator.
type User struct {
	id           kernel.UUID
	email        string
	passwordHash string
	firstName    string
	lastName     string
	role         Role
	createdAt    time.Time
	updatedAt    time.Time

	isConstructed bool
}

// NewUser creates a user. The email is normalized before it is stored.
func NewUser(id kernel.UUID, email, passwordHash, firstName, lastName string, role Role) (*User, error) {
	now := time.Now().UTC()
	return RestoreUser(id, email, passwordHash, firstName, lastName, role, now, now)
}

// RestoreUser rebuilds a user from persistence.
func RestoreUser(
	id kernel.UUID,
	email, passwordHash, firstName, lastName string,
	role Role,
	createdAt, updatedAt time.Time,
) (*User, error) {
	u := &User{
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
		u.setName(firstName, lastName),
		u.setRole(role),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate ensures the User instance was properly constructed.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID { return u.id }
func (u *User) Email() string { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) FirstName() string { return u.firstName }
func (u *User) LastName() string { return u.lastName }
func (u *User) Role() Role { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// FullName joins first and last name.
func (u *User) FullName() string {
	return u.firstName + " " + u.lastName
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.role == Admin
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setEmail(email string) error {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return errs.NewValueIsRequiredError("email")
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not a valid address", email))
	}
	u.email = normalized
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if strings.TrimSpace(hash) == "" {
		return errs.NewValueIsRequiredError("password hash")
	}
	u.passwordHash = hash
	return nil
}

func (u *User) setName(firstName, lastName string) error {
	var err error
	if strings.TrimSpace(firstName) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("first name"))
	}
	if strings.TrimSpace(lastName) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("last name"))
	}
	if err != nil {
		return err
	}
	u.firstName = strings.TrimSpace(firstName)
	u.lastName = strings.TrimSpace(lastName)
	return nil
}

func (u *User) setRole(role Role) error {
	if role != Customer && role != Admin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", role))
	}
	u.role = role
	return nil
}
