package repository

import (
	"fmt"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

// storeError tags a driver failure as ErrStoreUnavailable while keeping the
// original error in the chain.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}
