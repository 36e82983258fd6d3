package cart

import "errors"

var (
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrItemNotInCart         = errors.New("item is not in the cart")
	ErrDecreaseBelowOriginal = errors.New("cannot decrease below original quantity")
	ErrRemoveOriginal        = errors.New("cannot remove an item of the original order")
	ErrUpdateInProgress      = errors.New("cart is adding items to an existing order")
	ErrNoUpdateInProgress    = errors.New("cart is not linked to an existing order")
	ErrSessionNotFound       = errors.New("cart not found")
)
