package analytics

import "time"

const (
	// TopicURLCreated carries events for newly minted or deduplicated codes.
	TopicURLCreated = "url.created"
	// TopicURLAccessed carries one event per successful redirect.
	TopicURLAccessed = "url.accessed"
)

// URLCreatedEvent is emitted when a shorten request completes.
type URLCreatedEvent struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	OriginalURL string     `json:"originalUrl"`
	OwnerID     string     `json:"ownerId,omitempty"`
	IsExisting  bool       `json:"isExisting"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClientIP    string     `json:"clientIp"`
	UserAgent   string     `json:"userAgent"`
}

// URLAccessedEvent is emitted when a short code resolves to a redirect.
type URLAccessedEvent struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
}
