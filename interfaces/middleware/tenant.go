package middleware

import (
	"net/http"
	"strings"

	"mediastore/infrastructure/logger"
	"mediastore/infrastructure/tenant"
	"mediastore/infrastructure/utils"

	"github.com/gin-gonic/gin"
)

const tenantContextKey = "tenant_id"

// Tenant resolves the tenant from X-Forwarded-Host, falling back to Host.
func Tenant(resolver *tenant.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.GetHeader("X-Forwarded-Host")
		if i := strings.IndexByte(host, ','); i >= 0 {
			host = host[:i]
		}
		if strings.TrimSpace(host) == "" {
			host = c.Request.Host
		}
		c.Set(tenantContextKey, resolver.Resolve(host))
		c.Next()
	}
}

func TenantID(c *gin.Context) string {
	return c.GetString(tenantContextKey)
}

// InternalSecret guards trusted machine-to-machine endpoints with a shared
// secret header. An empty configured secret rejects everything.
func InternalSecret(header, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(header)
		if secret == "" || got == "" || !utils.SecureCompare(got, secret) {
			logger.GetLogger().
				WithField("path", c.FullPath()).
				WithField("client_ip", c.ClientIP()).
				Warn("Rejected internal call")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
