package store

import "github.com/oklog/ulid/v2"

// NewID returns a lexically sortable, monotonic ULID string.
func NewID() string {
	return ulid.Make().String()
}
