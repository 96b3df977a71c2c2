package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/nikolayk812/ownmart-pos/internal/port"
)

type session struct {
	mu      sync.Mutex
	cart    *domain.Cart
	deleted bool
}

// cartRepository keeps carts in memory for the lifetime of the process.
type cartRepository struct {
	prices domain.PriceLookup

	mu       sync.Mutex
	sessions map[string]*session
}

func NewCart(prices domain.PriceLookup) (port.CartRepository, error) {
	if prices == nil {
		return nil, fmt.Errorf("prices is nil")
	}

	return &cartRepository{
		prices:   prices,
		sessions: make(map[string]*session),
	}, nil
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart, err := withCart(ctx, r, ownerID, false, func(c *domain.Cart) (domain.Cart, error) {
		return *c.Clone(), nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, itemName string, quantity int) (domain.LineItem, error) {
	return withCart(ctx, r, ownerID, true, func(c *domain.Cart) (domain.LineItem, error) {
		item, err := c.Append(r.prices, itemName, quantity)
		if err != nil {
			return domain.LineItem{}, fmt.Errorf("c.Append: %w", err)
		}

		return item, nil
	})
}

func (r *cartRepository) RemoveLast(ctx context.Context, ownerID string) (domain.LineItem, error) {
	return withCart(ctx, r, ownerID, false, func(c *domain.Cart) (domain.LineItem, error) {
		item, err := c.RemoveLast()
		if err != nil {
			return domain.LineItem{}, fmt.Errorf("c.RemoveLast: %w", err)
		}

		return item, nil
	})
}

func (r *cartRepository) Clear(ctx context.Context, ownerID string) error {
	_, err := withCart(ctx, r, ownerID, false, func(c *domain.Cart) (struct{}, error) {
		c.Clear()
		return struct{}{}, nil
	})

	return err
}

func (r *cartRepository) DeleteCart(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	s, ok := r.sessions[ownerID]
	delete(r.sessions, ownerID)
	r.mu.Unlock()

	if !ok {
		return false, nil
	}

	s.mu.Lock()
	s.deleted = true
	s.mu.Unlock()

	return true, nil
}

// session returns the owner's session, creating it when create is set.
func (r *cartRepository) session(ownerID string, create bool) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[ownerID]
	if !ok && create {
		s = &session{cart: domain.NewCart(ownerID)}
		r.sessions[ownerID] = s
	}

	return s
}
