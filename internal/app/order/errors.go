package order

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidMenuItem = errors.New("invalid_menu_item")
	ErrFactoryFailed   = errors.New("factory_failed")
)
