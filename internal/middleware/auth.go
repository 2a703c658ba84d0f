package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imcbsglobal/task-webapp-backend/internal/auth"
)

const contextTenant = "tenantContext"

// AuthRequired decodes the bearer token once per request and stores the
// resulting TenantContext as a single value; handlers read it back with
// TenantFrom instead of re-parsing headers.
func AuthRequired(authority *auth.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, err := authority.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			status := http.StatusUnauthorized
			message := "invalid or missing token"
			switch {
			case errors.Is(err, auth.ErrTokenMissing):
				message = "missing authorization"
			case errors.Is(err, auth.ErrTokenExpired):
				message = "token has expired"
			}
			c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
			return
		}

		c.Set(contextTenant, tc)
		c.Next()
	}
}

// TenantFrom returns the request's tenant scope. The second value is false
// only when AuthRequired did not run for the route.
func TenantFrom(c *gin.Context) (auth.TenantContext, bool) {
	value, ok := c.Get(contextTenant)
	if !ok {
		return auth.TenantContext{}, false
	}
	tc, ok := value.(auth.TenantContext)
	return tc, ok
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := TenantFrom(c)
		if !ok || !tc.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}
