package shortener

import "time"

// Code represents a short URL code.
type Code string

// Record is a stored short URL mapping. Records are immutable once created,
// except for the access counters and eventual deletion after expiry.
type Record struct {
	Code           Code
	OriginalURL    string // normalized form
	OwnerID        string // empty for anonymous
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ExpiresAt      *time.Time // nil means the mapping never expires
	Clicks         int64
	LastAccessedAt *time.Time
}

// Expired reports whether the record's expiry has passed at the given time.
// Records with no expiry never expire.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}

// CreateResult is the outcome of a CreateShortURL call.
type CreateResult struct {
	Code       Code
	IsExisting bool
	ExpiresAt  *time.Time
}

// Resolution is the outcome of resolving a short code. An expired mapping is
// returned with Expired set so callers can distinguish it from an unknown
// code; it must never be redirected to.
type Resolution struct {
	URL     string
	Expired bool
}
