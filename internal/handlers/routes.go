package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urls *URLHandler, counter *CounterHandler, health *HealthHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Creates a short code for a URL, reusing an existing mapping for identical non-expired URLs. A custom code skips deduplication and fails with 409 when taken.",
		Tags:        []string{"URLs"},
	}, urls.Shorten)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL. Unknown codes answer 404; expired mappings answer 410.",
		Tags:        []string{"URLs"},
	}, urls.Redirect)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/resolve/{code}",
		Summary:     "Resolve short code",
		Description: "Returns the mapping behind a short code without redirecting.",
		Tags:        []string{"URLs"},
	}, urls.Resolve)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/admin/counter/reset",
		Summary:     "Reset id counter",
		Description: "Administrative: resets the allocator so the next id is 1, or the given value.",
		Tags:        []string{"Admin"},
	}, counter.Reset)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, health.Check)
}
