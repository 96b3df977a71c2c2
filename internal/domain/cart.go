package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// PriceLookup resolves the current unit price of a named item.
type PriceLookup interface {
	PriceOf(name string) (Money, error)
}

type LineItem struct {
	ItemName  string
	Quantity  int
	UnitPrice Money
	LineTotal Money
}

// Cart is an ordered sequence of line items. Order drives both receipt rows
// and RemoveLast.
type Cart struct {
	OwnerID string

	items []LineItem
}

func NewCart(ownerID string) *Cart {
	return &Cart{OwnerID: ownerID}
}

// Append prices itemName at its current unit price and adds it as the last line.
// A rejected append leaves the cart unchanged.
func (c *Cart) Append(prices PriceLookup, itemName string, quantity int) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, fmt.Errorf("quantity[%d] must be positive: %w", quantity, ErrInvalidQuantity)
	}
	if prices == nil {
		return LineItem{}, fmt.Errorf("price list is nil")
	}

	unitPrice, err := prices.PriceOf(itemName)
	if err != nil {
		return LineItem{}, fmt.Errorf("prices.PriceOf: %w", err)
	}

	item := LineItem{
		ItemName:  itemName,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Times(quantity),
	}
	c.items = append(c.items, item)

	return item, nil
}

func (c *Cart) RemoveLast() (LineItem, error) {
	if len(c.items) == 0 {
		return LineItem{}, ErrEmptyCart
	}

	last := c.items[len(c.items)-1]
	c.items = c.items[:len(c.items)-1]

	return last, nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	return slices.Clone(c.items)
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	return &Cart{
		OwnerID: c.OwnerID,
		items:   slices.Clone(c.items),
	}
}

// ParseQuantity accepts only whole positive numbers written in base-10 digits.
func ParseQuantity(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("quantity is empty: %w", ErrInvalidQuantity)
	}

	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("quantity[%s] is not a whole number: %w", text, ErrInvalidQuantity)
		}
	}

	qty, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("quantity[%s] is out of range: %w", text, ErrInvalidQuantity)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("quantity[%d] must be positive: %w", qty, ErrInvalidQuantity)
	}

	return qty, nil
}
