package shortener

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize canonicalizes a URL so that semantically identical inputs map to
// the same store and cache key:
//   - surrounding whitespace is trimmed before parsing
//   - the host is lowercased; path and query keep their case
//   - the fragment and any embedded user info are stripped
//   - a single trailing slash is stripped from non-root paths; the root path
//     is omitted entirely
//   - the query string is preserved verbatim, including ordering
//
// Returns ErrInvalidURL unless the input is an absolute http or https URL.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute http(s) url", ErrInvalidURL, raw)
	}

	u.Fragment = ""
	u.User = nil
	u.Host = strings.ToLower(u.Host)

	path := u.EscapedPath()
	if path != "/" && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}

	base := u.Scheme + "://" + u.Host
	if (path == "" || path == "/") && u.RawQuery == "" {
		return base, nil
	}

	out := base + path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}

	return out, nil
}
