package handlers

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		URL        string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
		ExpiresAt  *int64 `doc:"Unix timestamp (seconds) when the mapping expires; omit for a permanent link" example:"1767225600" json:"expiresAt,omitempty"`
		CustomCode string `doc:"User-chosen short code; skips deduplication" example:"my-launch" json:"customCode,omitempty"`
	}
}

// ShortenResponse is the response for a successfully created short URL.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code        string `doc:"The short code"                                     example:"1X9kP"                        json:"code"`
		ShortURL    string `doc:"The full short URL"                                 example:"http://localhost:8888/1X9kP"  json:"shortUrl"`
		OriginalURL string `doc:"The normalized original URL"                        example:"https://example.com/very/long/path" json:"originalUrl"`
		IsExisting  bool   `doc:"Whether an existing mapping was reused"             json:"isExisting"`
		ExpiresAt   *int64 `doc:"Unix timestamp (seconds) when the mapping expires"  json:"expiresAt,omitempty"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"1X9kP" path:"code"`
}

// RedirectResponse is the redirect to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// ResolveRequest is the request for a non-redirecting lookup.
type ResolveRequest struct {
	Code string `doc:"The short code" example:"1X9kP" path:"code"`
}

// ResolveResponse reports the mapping behind a short code.
type ResolveResponse struct {
	Body struct {
		URL     string `doc:"The original URL"             json:"url"`
		Expired bool   `doc:"Whether the mapping expired"  json:"expired"`
	}
}

// ResetCounterRequest is the administrative request to reset the id counter.
type ResetCounterRequest struct {
	Body struct {
		Value int64 `doc:"Value the next allocated id should have; 0 resets to 1" json:"value,omitempty" minimum:"0"`
	}
}

// ResetCounterResponse confirms a counter reset.
type ResetCounterResponse struct {
	Body struct {
		Status string `doc:"Operation status"          json:"status"`
		Value  int64  `doc:"Requested value"           json:"value"`
		Type   string `doc:"reset or resetToValue"     json:"type"`
	}
}
