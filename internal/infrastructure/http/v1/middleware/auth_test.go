package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/domain/auth"
)

// asUser plants an authenticated user on the request context, standing
// in for the Auth middleware.
func asUser(user *appctx.UserContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			ctx := appctx.WithUser(c.Request.Context(), user)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		user *appctx.UserContext
		want int
	}{
		{
			name: "manager allowed",
			user: &appctx.UserContext{UserID: "u1", Roles: []string{auth.RoleManager}},
			want: http.StatusOK,
		},
		{
			name: "admin bypasses role check",
			user: &appctx.UserContext{UserID: "u2", IsAdmin: true},
			want: http.StatusOK,
		},
		{
			name: "technician rejected",
			user: &appctx.UserContext{UserID: "u3", Roles: []string{auth.RoleTechnician}},
			want: http.StatusForbidden,
		},
		{
			name: "unauthenticated rejected",
			user: nil,
			want: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.POST("/warehouses", asUser(tt.user), RequireRole(auth.RoleManager), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/warehouses", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
