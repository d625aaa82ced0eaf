package authn

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrEmailTaken     = errors.New("email_taken")
	ErrUserNotFound   = errors.New("user_not_found")
)
