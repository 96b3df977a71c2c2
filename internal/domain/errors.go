package domain

import "errors"

var (
	// ErrUnknownItem is returned when an item name is not present in the price list.
	ErrUnknownItem = errors.New("unknown item")
	// ErrInvalidQuantity is returned for non-positive or non-integer quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrEmptyCart is returned when removing from a cart that has no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidAmount is returned when a payment request carries a non-positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrEncodingFailure is returned when a payment code image cannot be produced.
	ErrEncodingFailure = errors.New("encoding failure")
)
