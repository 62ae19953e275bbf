package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewVendor(t *testing.T) {
	v, err := NewVendor("v1", "u1", "  Corner Shop ", "Books", "1 Main St", time.Unix(0, 0))
	require.NoError(t, err)
	require.Equal(t, "Corner Shop", v.StoreName)

	_, err = NewVendor("v1", "", "Shop", "d", "a", time.Time{})
	require.ErrorIs(t, err, ErrMissingUser)
	_, err = NewVendor("v1", "u1", " ", "d", "a", time.Time{})
	require.ErrorIs(t, err, ErrEmptyStoreName)
	_, err = NewVendor("v1", "u1", "Shop", "", "a", time.Time{})
	require.ErrorIs(t, err, ErrEmptyDescription)
	_, err = NewVendor("v1", "u1", "Shop", "d", "", time.Time{})
	require.ErrorIs(t, err, ErrEmptyAddress)
}
