package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

const minPasswordLength = 6

var (
	ErrEmptyName      = errors.New("name is required")
	ErrEmptyPassword  = errors.New("password is required")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrWeakPassword   = errors.New("password must be at least 6 characters")
	ErrInvalidRole    = errors.New("role must be customer or vendor")
	ErrPasswordLength = errors.New("password must be at most 72 bytes")
)

// hashCost is lowered in tests.
var hashCost = bcrypt.DefaultCost

// User is a marketplace account. Only the bcrypt hash of the password is kept.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         identity.Role
	CreatedAt    time.Time
}

// NewUser validates the registration fields and hashes the password. An empty role means customer.
func NewUser(id, name, email, password, role string, createdAt time.Time) (*User, error) {
	u := &User{ID: id, CreatedAt: createdAt}
	if err := u.SetName(name); err != nil {
		return nil, err
	}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetRole(role); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetEmail stores the trimmed, lower-cased address.
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

func (u *User) SetRole(role string) error {
	if strings.TrimSpace(role) == "" {
		u.Role = identity.RoleCustomer
		return nil
	}
	parsed := identity.ParseRole(role)
	if !parsed.Valid() {
		return ErrInvalidRole
	}
	u.Role = parsed
	return nil
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > 72 {
		return ErrPasswordLength
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the supplied password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail is the lookup key form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
