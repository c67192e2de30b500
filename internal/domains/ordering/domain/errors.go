package domain

import "errors"

var (
	ErrUnknownItem        = errors.New("item is not on the menu")
	ErrItemNotInCart      = errors.New("item is not in the cart")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout in progress, cart is locked")
	ErrNoCheckout         = errors.New("no checkout in progress")
	ErrInvalidUserID      = errors.New("user id is required")
)
