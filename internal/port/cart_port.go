package port

import (
	"context"

	"github.com/nikolayk812/ownmart-pos/internal/domain"
)

// CartRepository keeps one cart per owner and serializes operations on it.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, itemName string, quantity int) (domain.LineItem, error)
	RemoveLast(ctx context.Context, ownerID string) (domain.LineItem, error)
	Clear(ctx context.Context, ownerID string) error
	DeleteCart(ctx context.Context, ownerID string) (bool, error)
}
