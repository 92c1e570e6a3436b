package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/commerce-backend/modules/audit"
	"github.com/example/commerce-backend/modules/auth"
	"github.com/example/commerce-backend/modules/finance"
	"github.com/example/commerce-backend/modules/inventory"
	"github.com/example/commerce-backend/modules/order"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule exposes the REST surface. It holds no business logic; every
// handler resolves the caller's tenant, then calls into the owning
// module through its port.
type APIModule struct {
	app      *fiber.App
	port     string
	tenants  tenant.TenantPort
	auth     auth.AuthPort
	products inventory.InventoryPort
	orders   order.OrderPort
	finance  finance.FinancePort
	audit    audit.AuditPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. Listen port comes from API_PORT,
// defaulting to 3000.
func NewModule() *APIModule {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{port: port}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"tenant", "auth", "inventory", "order", "finance", "audit"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "tenant":
		m.tenants = tenant.NewTenantAdapter(container)
	case "auth":
		m.auth = auth.NewAuthAdapter(container)
	case "inventory":
		m.products = inventory.NewInventoryAdapter(container)
	case "order":
		m.orders = order.NewOrderAdapter(container)
	case "finance":
		m.finance = finance.NewFinanceAdapter(container)
	case "audit":
		m.audit = audit.NewAuditAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	for name, port := range map[string]any{
		"tenant":    m.tenants,
		"auth":      m.auth,
		"inventory": m.products,
		"order":     m.orders,
		"finance":   m.finance,
		"audit":     m.audit,
	} {
		if port == nil {
			return fmt.Errorf("%s dependency not set", name)
		}
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrorHandler,
	})
	m.app.Use(recover.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// fiberErrorHandler handles errors escaping route handlers.
func fiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
