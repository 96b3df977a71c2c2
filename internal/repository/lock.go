package repository

import (
	"context"
	"fmt"

	"github.com/nikolayk812/ownmart-pos/internal/domain"
)

// withCart runs fn while holding the owner's cart lock. When create is false
// and the owner has no cart, fn runs against a throwaway empty cart.
func withCart[T any](ctx context.Context, r *cartRepository, ownerID string, create bool, fn func(c *domain.Cart) (T, error)) (T, error) {
	var zero T

	if ownerID == "" {
		return zero, fmt.Errorf("ownerID is empty")
	}

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		s := r.session(ownerID, create)
		if s == nil {
			return fn(domain.NewCart(ownerID))
		}

		s.mu.Lock()
		if s.deleted {
			// removed while we waited for the lock, look it up again
			s.mu.Unlock()
			continue
		}
		if err := ctx.Err(); err != nil {
			s.mu.Unlock()
			return zero, err
		}

		result, err := fn(s.cart)
		s.mu.Unlock()

		return result, err
	}
}
