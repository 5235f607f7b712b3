package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

const DefaultCost = 10

// maxBytes is the longest input bcrypt accepts.
const maxBytes = 72

type Hasher struct {
	cost int
}

func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &Hasher{cost: cost}, nil
}

func (h *Hasher) Cost() int {
	return h.cost
}

func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > maxBytes {
		return "", &model.WeakPasswordError{Reasons: []string{fmt.Sprintf("password must not exceed %d bytes", maxBytes)}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether plain matches hash. A mismatch is not an error; a
// corrupt hash is. Inputs Hash would refuse never match.
func (h *Hasher) Compare(hash string, plain string) (bool, error) {
	if len(plain) > maxBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password hash: %w", err)
	}
}
