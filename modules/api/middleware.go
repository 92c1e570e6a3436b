package api

import (
	"strings"

	"github.com/example/commerce-backend/modules/auth"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/gofiber/fiber/v2"
)

const (
	localIdentity = "identity"
	localTenantID = "tenant_id"
)

// requireAuth validates the bearer token and stores the caller identity
// in request locals.
func (m *APIModule) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Missing Authorization header",
		})
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || token == header {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Malformed Authorization header",
		})
	}

	identity, err := m.auth.ValidateToken(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired token",
		})
	}

	c.Locals(localIdentity, identity)
	return c.Next()
}

// requireAdmin restricts a route to admin accounts. Must run after
// requireAuth.
func (m *APIModule) requireAdmin(c *fiber.Ctx) error {
	id := callerIdentity(c)
	if id == nil || id.Role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Admin role required",
		})
	}
	return c.Next()
}

// resolveTenantScope determines the tenant for the request and stores
// its id in locals. An explicit X-Tenant-ID header wins; otherwise the
// request host is matched against tenant domains and active aliases.
// Non-admin callers may only act within their own tenant.
func (m *APIModule) resolveTenantScope(c *fiber.Ctx) error {
	req := tenant.ResolveRequest{
		TenantID: c.Get("X-Tenant-ID"),
		Host:     c.Hostname(),
	}

	tc, err := m.tenants.Resolve(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "tenant_not_found",
			Message: "No tenant matches this request",
		})
	}

	if id := callerIdentity(c); id != nil && id.Role != "admin" && id.TenantID != tc.ID {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Caller does not belong to this tenant",
		})
	}

	c.Locals(localTenantID, tc.ID)
	return c.Next()
}

// callerIdentity returns the authenticated identity, or nil on
// unauthenticated routes.
func callerIdentity(c *fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(localIdentity).(*auth.Identity)
	return id
}

// scopedTenantID returns the tenant id resolved for this request.
func scopedTenantID(c *fiber.Ctx) string {
	id, _ := c.Locals(localTenantID).(string)
	return id
}

// actor names the caller for order log entries.
func actor(c *fiber.Ctx) string {
	if id := callerIdentity(c); id != nil {
		return id.Username
	}
	return "system"
}
