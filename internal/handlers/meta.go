package handlers

import "context"

type requestMetaKey struct{}

// RequestMeta holds per-request metadata: client address for analytics and
// the owner identity asserted by the upstream auth proxy.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
	OwnerID   string // empty for anonymous requests
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
