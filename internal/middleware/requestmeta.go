package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/luizdk/shortener/internal/handlers"
)

// ownerHeader carries the authenticated principal set by the upstream auth
// proxy; absent for anonymous requests.
const ownerHeader = "X-User-Id"

// RequestMeta is a middleware that adds client IP, user-agent, referrer,
// and owner identity to the request context.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
			OwnerID:   ctx.Header(ownerHeader),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}
