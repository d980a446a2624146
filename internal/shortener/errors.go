package shortener

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no record exists for the given code or URL.
var ErrNotFound = errors.New("short url not found")

// ErrInvalidURL indicates the input is not a parseable absolute http/https URL.
var ErrInvalidURL = errors.New("invalid url")

// ErrAllocatorUnavailable indicates the id allocator backend is unreachable.
// Callers must fail the request rather than substitute a non-unique id.
var ErrAllocatorUnavailable = errors.New("id allocator unavailable")

// ErrCacheMiss indicates the cache has no entry for the key. A miss is never
// authoritative; callers fall through to the store.
var ErrCacheMiss = errors.New("cache miss")

// ShortCodeConflictError indicates a custom short code is already taken.
type ShortCodeConflictError struct {
	Code Code
}

func (e *ShortCodeConflictError) Error() string {
	return fmt.Sprintf("short code %q is already taken", string(e.Code))
}
