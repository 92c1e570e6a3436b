package api

import (
	"time"

	"github.com/example/commerce-backend/modules/audit"
	"github.com/example/commerce-backend/modules/auth"
	"github.com/example/commerce-backend/modules/finance"
	"github.com/example/commerce-backend/modules/inventory"
	"github.com/example/commerce-backend/modules/order"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	api := m.app.Group("/api/v1")
	api.Post("/auth/login", m.login)

	authed := api.Group("", m.requireAuth)

	admin := authed.Group("", m.requireAdmin)
	admin.Post("/auth/users", m.createUser)
	admin.Get("/tenants", m.listTenants)
	admin.Post("/tenants", m.upsertTenant)
	admin.Delete("/tenants/:id", m.deactivateTenant)
	admin.Get("/audit/trail", m.auditTrail)

	scoped := authed.Group("", m.resolveTenantScope)
	scoped.Get("/tenant", m.currentTenant)

	products := scoped.Group("/products")
	products.Get("/", m.listProducts)
	products.Post("/", m.upsertProduct)
	products.Get("/:id", m.getProduct)
	products.Delete("/:id", m.deleteProduct)
	products.Post("/:id/batches", m.addBatch)

	orders := scoped.Group("/orders")
	orders.Get("/", m.listOrders)
	orders.Post("/", m.upsertOrder)
	orders.Post("/bulk", m.bulkUpsertOrders)
	orders.Delete("/", m.deleteOrders)
	orders.Post("/returns/scan", m.scanReturn)
	orders.Get("/customer-history", m.customerHistory)
	orders.Get("/:id", m.getOrder)
	orders.Post("/:id/confirm", m.confirmOrder)
	orders.Post("/:id/ship", m.shipOrder)
	orders.Post("/:id/deliver", m.deliverOrder)
	orders.Post("/:id/transition", m.transitionOrder)

	scoped.Post("/finance/report", m.financeReport)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// login handles POST /api/v1/auth/login.
func (m *APIModule) login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	resp, err := m.auth.Login(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// createUser handles POST /api/v1/auth/users.
func (m *APIModule) createUser(c *fiber.Ctx) error {
	var req auth.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := m.auth.CreateUser(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// listTenants handles GET /api/v1/tenants.
func (m *APIModule) listTenants(c *fiber.Ctx) error {
	resp, err := m.tenants.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	out := TenantListResponse{Tenants: make([]TenantView, 0, len(resp.Tenants))}
	for _, tc := range resp.Tenants {
		out.Tenants = append(out.Tenants, toTenantView(&tc))
	}
	out.Total = len(out.Tenants)
	return c.JSON(out)
}

// upsertTenant handles POST /api/v1/tenants.
func (m *APIModule) upsertTenant(c *fiber.Ctx) error {
	var req tenant.UpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.Domain == "" {
		return badRequest(c, "Name and domain are required")
	}

	tc, err := m.tenants.Upsert(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTenantView(tc))
}

// deactivateTenant handles DELETE /api/v1/tenants/:id. Tenants are
// soft-deactivated, never removed.
func (m *APIModule) deactivateTenant(c *fiber.Ctx) error {
	if err := m.tenants.Deactivate(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// currentTenant handles GET /api/v1/tenant.
func (m *APIModule) currentTenant(c *fiber.Ctx) error {
	tc, err := m.tenants.Resolve(c.Context(), &tenant.ResolveRequest{TenantID: scopedTenantID(c)})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTenantView(tc))
}

// auditTrail handles GET /api/v1/audit/trail.
func (m *APIModule) auditTrail(c *fiber.Ctx) error {
	resp, err := m.audit.Trail(c.Context(), &audit.TrailRequest{
		TenantID: c.Query("tenant_id"),
		Limit:    c.QueryInt("limit"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// listProducts handles GET /api/v1/products.
func (m *APIModule) listProducts(c *fiber.Ctx) error {
	resp, err := m.products.ListProducts(c.Context(), scopedTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// getProduct handles GET /api/v1/products/:id.
func (m *APIModule) getProduct(c *fiber.Ctx) error {
	resp, err := m.products.GetProduct(c.Context(), scopedTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// upsertProduct handles POST /api/v1/products.
func (m *APIModule) upsertProduct(c *fiber.Ctx) error {
	var req inventory.UpsertProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.TenantID = scopedTenantID(c)

	resp, err := m.products.UpsertProduct(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// deleteProduct handles DELETE /api/v1/products/:id.
func (m *APIModule) deleteProduct(c *fiber.Ctx) error {
	if err := m.products.DeleteProduct(c.Context(), scopedTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// addBatch handles POST /api/v1/products/:id/batches.
func (m *APIModule) addBatch(c *fiber.Ctx) error {
	var req inventory.AddBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.TenantID = scopedTenantID(c)
	req.ProductID = c.Params("id")

	resp, err := m.products.AddBatch(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// listOrders handles GET /api/v1/orders.
func (m *APIModule) listOrders(c *fiber.Ctx) error {
	req := order.ListOrdersRequest{
		TenantID:  scopedTenantID(c),
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		ProductID: c.Query("product_id"),
		Page:      c.QueryInt("page"),
		PageSize:  c.QueryInt("page_size"),
	}

	var err error
	if req.From, err = parseTimeQuery(c.Query("from"), false); err != nil {
		return badRequest(c, "Invalid 'from' date")
	}
	if req.To, err = parseTimeQuery(c.Query("to"), true); err != nil {
		return badRequest(c, "Invalid 'to' date")
	}

	resp, err := m.orders.List(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// getOrder handles GET /api/v1/orders/:id.
func (m *APIModule) getOrder(c *fiber.Ctx) error {
	resp, err := m.orders.Get(c.Context(), scopedTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// upsertOrder handles POST /api/v1/orders.
func (m *APIModule) upsertOrder(c *fiber.Ctx) error {
	var req order.UpsertOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.TenantID = scopedTenantID(c)

	resp, err := m.orders.Upsert(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// bulkUpsertOrders handles POST /api/v1/orders/bulk. Records apply
// independently; the response carries per-record outcomes.
func (m *APIModule) bulkUpsertOrders(c *fiber.Ctx) error {
	var req order.BulkUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Orders) == 0 {
		return badRequest(c, "At least one order is required")
	}
	req.TenantID = scopedTenantID(c)

	resp, err := m.orders.BulkUpsert(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// deleteOrders handles DELETE /api/v1/orders.
func (m *APIModule) deleteOrders(c *fiber.Ctx) error {
	var req order.DeleteOrdersRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if !req.All && len(req.OrderIDs) == 0 {
		return badRequest(c, "Order ids are required unless 'all' is set")
	}
	req.TenantID = scopedTenantID(c)

	resp, err := m.orders.Delete(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// confirmOrder handles POST /api/v1/orders/:id/confirm.
func (m *APIModule) confirmOrder(c *fiber.Ctx) error {
	resp, err := m.orders.Confirm(c.Context(), m.actionRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// shipOrder handles POST /api/v1/orders/:id/ship.
func (m *APIModule) shipOrder(c *fiber.Ctx) error {
	resp, err := m.orders.Ship(c.Context(), m.actionRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// deliverOrder handles POST /api/v1/orders/:id/deliver.
func (m *APIModule) deliverOrder(c *fiber.Ctx) error {
	resp, err := m.orders.MarkDelivered(c.Context(), m.actionRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// transitionOrder handles POST /api/v1/orders/:id/transition.
func (m *APIModule) transitionOrder(c *fiber.Ctx) error {
	var body struct {
		To string `json:"to"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.To == "" {
		return badRequest(c, "Target status is required")
	}

	resp, err := m.orders.Transition(c.Context(), &order.TransitionRequest{
		TenantID: scopedTenantID(c),
		OrderID:  c.Params("id"),
		To:       body.To,
		Actor:    actor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// scanReturn handles POST /api/v1/orders/returns/scan.
func (m *APIModule) scanReturn(c *fiber.Ctx) error {
	var body struct {
		Key string `json:"key"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Key == "" {
		return badRequest(c, "Tracking reference or order id is required")
	}

	resp, err := m.orders.ScanReturn(c.Context(), &order.ScanReturnRequest{
		TenantID: scopedTenantID(c),
		Key:      body.Key,
		Actor:    actor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// customerHistory handles GET /api/v1/orders/customer-history.
func (m *APIModule) customerHistory(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return badRequest(c, "Phone is required")
	}

	resp, err := m.orders.CustomerHistory(c.Context(), scopedTenantID(c), phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// financeReport handles POST /api/v1/finance/report.
func (m *APIModule) financeReport(c *fiber.Ctx) error {
	var req finance.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.TenantID = scopedTenantID(c)

	resp, err := m.finance.ComputeReport(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// actionRequest builds the shared confirm/ship/deliver request.
func (m *APIModule) actionRequest(c *fiber.Ctx) *order.ActionRequest {
	return &order.ActionRequest{
		TenantID: scopedTenantID(c),
		OrderID:  c.Params("id"),
		Actor:    actor(c),
	}
}

// toTenantView reduces a tenant context to its client-safe shape.
func toTenantView(tc *tenant.Context) TenantView {
	return TenantView{
		ID:          tc.ID,
		Name:        tc.Name,
		Domain:      tc.Domain,
		Active:      tc.Active,
		DeliveryFee: tc.Settings.DeliveryFee,
		ReturnFee:   tc.Settings.ReturnFee,
		CourierMode: tc.Settings.CourierMode,
	}
}

// parseTimeQuery parses an RFC3339 or YYYY-MM-DD query value. Date-only
// upper bounds are pushed to the end of the day so the range stays
// inclusive.
func parseTimeQuery(value string, upperBound bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	if upperBound {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
