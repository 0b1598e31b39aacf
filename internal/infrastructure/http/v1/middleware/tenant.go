package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
)

// HeaderTenantID carries the tenant the request operates on.
const HeaderTenantID = "X-Tenant-ID"

// Tenant middleware resolves the tenant from the X-Tenant-ID header.
// All rows in the shared schema are scoped by this tenant; requests
// without a valid tenant never reach a handler.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderTenantID)
		if raw == "" {
			_ = c.Error(apperror.NewValidation("missing X-Tenant-ID header"))
			c.Abort()
			return
		}

		tenantID, err := id.Parse(raw)
		if err != nil || tenantID == id.Nil() {
			_ = c.Error(
				apperror.NewValidation("invalid X-Tenant-ID header").
					WithDetail("tenant_id", raw),
			)
			c.Abort()
			return
		}

		ctx := appctx.WithTenant(c.Request.Context(), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set("tenant_id", tenantID.String())

		c.Next()
	}
}
