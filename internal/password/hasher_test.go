package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

func TestHasher(t *testing.T) {
	t.Parallel()

	hasher, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3r$ecret", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.MinCost, cost)

	ok, err := hasher.Compare(hash, "Sup3r$ecret")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = hasher.Compare(hash, "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	again, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	require.NotEqual(t, hash, again, "hashes must be salted")
}

func TestHasherRejectsCorruptHash(t *testing.T) {
	t.Parallel()

	hasher, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := hasher.Compare("not-a-bcrypt-hash", "whatever")
	require.Error(t, err)
	require.False(t, ok)
}

func TestHasherRejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	hasher, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = hasher.Hash("Aa1!" + strings.Repeat("x", 80))
	require.True(t, errors.Is(err, model.ErrWeakPassword))

	var weak *model.WeakPasswordError
	require.ErrorAs(t, err, &weak)
	require.Len(t, weak.Reasons, 1)

	hash, err := hasher.Hash("Aa1!")
	require.NoError(t, err)
	ok, err := hasher.Compare(hash, "Aa1!"+strings.Repeat("x", 80))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewHasherCost(t *testing.T) {
	t.Parallel()

	hasher, err := NewHasher(0)
	require.NoError(t, err)
	require.Equal(t, DefaultCost, hasher.Cost())

	_, err = NewHasher(2)
	require.Error(t, err)

	_, err = NewHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)
}
