package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TenantHeader carries the caller's tenant uuid on every API request.
const TenantHeader = "X-Tenant-UUID"

// TenantMiddleware resolves the tenant uuid from the request header (query
// parameter "uuid" as a fallback for browser downloads) and stores it in
// locals for ContextMiddleware and the handlers. Must run before
// ContextMiddleware.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := strings.TrimSpace(c.Get(TenantHeader))
		if tenant == "" {
			tenant = strings.TrimSpace(c.Query("uuid"))
		}
		if tenant != "" {
			c.Locals("tenantUUID", tenant)
		}
		return c.Next()
	}
}
