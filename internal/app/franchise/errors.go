package franchise

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrForbidden         = errors.New("forbidden")
	ErrFranchiseNotFound = errors.New("franchise_not_found")
	ErrStoreNotFound     = errors.New("store_not_found")
	ErrUnknownAdmin      = errors.New("unknown_admin")
	ErrNameTaken         = errors.New("name_taken")
)
