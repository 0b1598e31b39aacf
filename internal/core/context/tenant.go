package context

import (
	"context"
)

type tenantKey struct{}

// WithTenant stores the tenant ID resolved from the request, before
// authentication has populated a UserContext.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

func tenantFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tenantKey{}).(string); ok {
		return v
	}
	return ""
}
