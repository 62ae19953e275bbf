package domain

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestNewUser_HashesPasswordAndDefaultsRole(t *testing.T) {
	u, err := NewUser("u1", " Ada ", " Ada@Example.COM ", "s3cret!", "", time.Now())
	require.NoError(t, err)
	require.Equal(t, "Ada", u.Name)
	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, identity.RoleCustomer, u.Role)
	require.NotEqual(t, "s3cret!", u.PasswordHash)
	require.True(t, u.CheckPassword("s3cret!"))
	require.False(t, u.CheckPassword("wrong!!"))
}

func TestNewUser_Validation(t *testing.T) {
	cases := []struct {
		name, uname, email, password, role string
		want                               error
	}{
		{"blank name", " ", "a@b.c", "secret", "", ErrEmptyName},
		{"email without at", "A", "ab.c", "secret", "", ErrInvalidEmail},
		{"short password", "A", "a@b.c", "12345", "", ErrWeakPassword},
		{"empty password", "A", "a@b.c", "", "", ErrEmptyPassword},
		{"unknown role", "A", "a@b.c", "secret", "admin", ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser("u1", tc.uname, tc.email, tc.password, tc.role, time.Now())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewUser_VendorRole(t *testing.T) {
	u, err := NewUser("u1", "Vera", "v@shop.io", "secret", "vendor", time.Now())
	require.NoError(t, err)
	require.Equal(t, identity.RoleVendor, u.Role)
}
