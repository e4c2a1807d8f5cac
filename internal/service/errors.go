package service

import "errors"

var (
	// ErrCartTooLarge means the cart's item count exceeds the configured maximum
	ErrCartTooLarge = errors.New("cart exceeds maximum item count")

	// ErrItemNotInMenu means a cart line references an item missing from the menu,
	// typically stale session data from before a menu change
	ErrItemNotInMenu = errors.New("cart references item not in menu")

	// ErrEmptyCart means checkout was attempted on an empty cart
	ErrEmptyCart = errors.New("cart is empty")
)
