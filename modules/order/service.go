package order

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/commerce-backend/domain/order"
	"github.com/example/commerce-backend/events"
	"github.com/example/commerce-backend/modules/shipping"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// resolveTenant resolves the tenant context and its store handle.
func (m *OrderModule) resolveTenant(ctx context.Context, tenantID string) (*tenant.Context, *gorm.DB, error) {
	if tenantID == "" {
		return nil, nil, fmt.Errorf("tenant_id is required")
	}
	tc, err := m.tenants.Resolve(ctx, &tenant.ResolveRequest{TenantID: tenantID})
	if err != nil {
		return nil, nil, err
	}
	db, err := m.router.Get(tc.StoreDSN)
	if err != nil {
		return nil, nil, err
	}
	return tc, db, nil
}

// list handles the order.list service request.
func (m *OrderModule) list(ctx context.Context, req ListOrdersRequest, _ *mono.Msg) (ListOrdersResponse, error) {
	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return ListOrdersResponse{}, err
	}

	filter := ListFilter{
		Search:    req.Search,
		ProductID: req.ProductID,
		From:      req.From,
		To:        req.To,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return ListOrdersResponse{}, err
		}
		filter.Status = status
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	orders, total, err := NewRepository(db, req.TenantID).List(filter)
	if err != nil {
		return ListOrdersResponse{}, err
	}

	resp := ListOrdersResponse{
		Orders:   make([]OrderResponse, 0, len(orders)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	return resp, nil
}

// get handles the order.get service request.
func (m *OrderModule) get(ctx context.Context, req GetOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return OrderResponse{}, err
	}

	o, err := NewRepository(db, req.TenantID).FindByID(req.OrderID)
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(o), nil
}

// upsert handles the order.upsert service request. New orders start in
// PENDING; existing orders keep their status and only customer fields,
// total and items are replaced.
func (m *OrderModule) upsert(ctx context.Context, req UpsertOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return OrderResponse{}, err
	}
	return m.upsertOne(db, req)
}

// upsertOne applies one order upsert against an already-resolved handle.
func (m *OrderModule) upsertOne(db *gorm.DB, req UpsertOrderRequest) (OrderResponse, error) {
	if req.CustomerName == "" {
		return OrderResponse{}, fmt.Errorf("customer_name is required")
	}
	if len(req.Items) == 0 {
		return OrderResponse{}, fmt.Errorf("at least one item is required")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return OrderResponse{}, fmt.Errorf("item quantity must be positive")
		}
	}

	repo := NewRepository(db, req.TenantID)

	o := &domain.Order{
		ID:           req.ID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		TotalAmount:  req.TotalAmount,
	}
	for _, it := range req.Items {
		o.Items = append(o.Items, domain.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if o.TotalAmount == 0 {
		o.TotalAmount = o.ItemTotal()
	}

	if o.ID == "" {
		o.ID = uuid.New().String()
		o.Number = m.newNumber()
		o.Status = domain.StatusPending
		o.CreatedAt = time.Now()
		if err := repo.Create(o); err != nil {
			return OrderResponse{}, err
		}
	} else {
		if err := repo.Update(o); err != nil {
			return OrderResponse{}, err
		}
	}

	stored, err := repo.FindByID(o.ID)
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(stored), nil
}

// bulkUpsert handles the order.bulk-upsert service request. Records apply
// independently; a failed record is reported in its slot and the rest of
// the batch proceeds.
func (m *OrderModule) bulkUpsert(ctx context.Context, req BulkUpsertRequest, _ *mono.Msg) (BulkUpsertResponse, error) {
	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return BulkUpsertResponse{}, err
	}

	resp := BulkUpsertResponse{
		Results: make([]BulkUpsertResult, 0, len(req.Orders)),
	}
	for i, one := range req.Orders {
		one.TenantID = req.TenantID
		result := BulkUpsertResult{Index: i}
		stored, err := m.upsertOne(db, one)
		if err != nil {
			result.Error = err.Error()
			resp.Failed++
		} else {
			result.OrderID = stored.ID
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp, nil
}

// deleteOrders handles the order.delete service request.
func (m *OrderModule) deleteOrders(ctx context.Context, req DeleteOrdersRequest, _ *mono.Msg) (DeleteOrdersResponse, error) {
	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return DeleteOrdersResponse{}, err
	}

	repo := NewRepository(db, req.TenantID)
	var deleted int64
	if req.All {
		deleted, err = repo.DeleteAll()
	} else {
		deleted, err = repo.DeleteByIDs(req.OrderIDs)
	}
	if err != nil {
		return DeleteOrdersResponse{}, err
	}
	return DeleteOrdersResponse{Deleted: deleted}, nil
}

// confirm handles the order.confirm service request.
func (m *OrderModule) confirm(ctx context.Context, req ActionRequest, _ *mono.Msg) (OrderResponse, error) {
	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return OrderResponse{}, err
	}

	var confirmed *domain.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		confirmed, err = Confirm(tx, req.TenantID, req.OrderID, req.Actor)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	if m.eventBus != nil {
		event := events.OrderConfirmedEvent{
			OrderID:     confirmed.ID,
			TenantID:    req.TenantID,
			Number:      confirmed.Number,
			TotalAmount: confirmed.TotalAmount,
			ConfirmedAt: *confirmed.ConfirmedAt,
		}
		if err := events.OrderConfirmedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[order] Warning: failed to publish OrderConfirmed event for order %s: %v", confirmed.ID, err)
		}
	}
	return toOrderResponse(confirmed), nil
}

// ship handles the order.ship service request. The courier is called
// before anything is written; a courier or transport failure leaves the
// order exactly as it was and is surfaced to the caller, who owns any
// retry.
func (m *OrderModule) ship(ctx context.Context, req ActionRequest, _ *mono.Msg) (OrderResponse, error) {
	tc, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return OrderResponse{}, err
	}
	repo := NewRepository(db, req.TenantID)

	o, err := repo.FindByID(req.OrderID)
	if err != nil {
		return OrderResponse{}, err
	}
	if o.Status != domain.StatusConfirmed {
		return OrderResponse{}, fmt.Errorf("%w: ship requires CONFIRMED, order is %s", ErrInvalidTransition, o.Status)
	}

	shipResp, err := m.shipper.CreateShipment(ctx, &shipping.CreateShipmentRequest{
		Shipment: shipping.ShipmentRequest{
			InvoiceRef:       o.Number,
			RecipientName:    o.CustomerName,
			RecipientPhone:   o.Phone,
			RecipientAddress: o.Address,
			Description:      describeItems(o.Items),
			CODAmount:        o.TotalAmount,
			WaybillNumber:    o.TrackingNumber,
		},
		Settings: shipping.CourierSettings{
			APIKey: tc.Settings.CourierAPIKey,
			Secret: tc.Settings.CourierSecret,
			Mode:   tc.Settings.CourierMode,
		},
	})
	if err != nil {
		return OrderResponse{}, err
	}
	if !shipResp.OK {
		return OrderResponse{}, fmt.Errorf("shipping failed (%s): %s", shipResp.FailureKind, shipResp.FailureReason)
	}

	var shipped *domain.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		shipped, err = MarkShipped(tx, req.TenantID, req.OrderID, shipResp.TrackingNumber, req.Actor)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	if m.eventBus != nil {
		event := events.OrderShippedEvent{
			OrderID:        shipped.ID,
			TenantID:       req.TenantID,
			TrackingNumber: shipped.TrackingNumber,
			ShippedAt:      *shipped.ShippedAt,
		}
		if err := events.OrderShippedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[order] Warning: failed to publish OrderShipped event for order %s: %v", shipped.ID, err)
		}
	}
	return toOrderResponse(shipped), nil
}

// markDelivered handles the order.deliver service request.
func (m *OrderModule) markDelivered(ctx context.Context, req ActionRequest, _ *mono.Msg) (OrderResponse, error) {
	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return OrderResponse{}, err
	}

	var delivered *domain.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		delivered, err = MarkDelivered(tx, req.TenantID, req.OrderID, req.Actor)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	if m.eventBus != nil {
		event := events.OrderDeliveredEvent{
			OrderID:     delivered.ID,
			TenantID:    req.TenantID,
			TotalAmount: delivered.TotalAmount,
			DeliveredAt: time.Now(),
		}
		if err := events.OrderDeliveredV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[order] Warning: failed to publish OrderDelivered event for order %s: %v", delivered.ID, err)
		}
	}
	return toOrderResponse(delivered), nil
}

// transition handles the order.transition service request for manual
// operator-driven moves.
func (m *OrderModule) transition(ctx context.Context, req TransitionRequest, _ *mono.Msg) (OrderResponse, error) {
	to, err := domain.ParseStatus(req.To)
	if err != nil {
		return OrderResponse{}, err
	}

	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return OrderResponse{}, err
	}

	var moved *domain.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		moved, err = Transition(tx, req.TenantID, req.OrderID, to, req.Actor)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	if moved.Status == domain.StatusReturnCompleted {
		m.publishReturned(req.TenantID, moved, true)
	}
	return toOrderResponse(moved), nil
}

// scanReturn handles the order.scan-return service request. The order is
// located by tracking reference or id; a repeated scan of an already
// terminal order is a no-op that restocks nothing.
func (m *OrderModule) scanReturn(ctx context.Context, req ScanReturnRequest, _ *mono.Msg) (ScanReturnResponse, error) {
	if req.Key == "" {
		return ScanReturnResponse{}, fmt.Errorf("key is required")
	}

	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return ScanReturnResponse{}, err
	}
	repo := NewRepository(db, req.TenantID)

	o, err := repo.FindByTrackingOrID(req.Key)
	if err != nil {
		return ScanReturnResponse{}, err
	}

	var (
		out       *domain.Order
		restocked bool
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		out, restocked, err = CompleteReturn(tx, req.TenantID, o, req.Actor)
		return err
	})
	if err != nil {
		return ScanReturnResponse{}, err
	}

	if restocked {
		m.publishReturned(req.TenantID, out, true)
	}
	return ScanReturnResponse{Order: toOrderResponse(out), Restocked: restocked}, nil
}

// customerHistory handles the order.customer-history service request.
func (m *OrderModule) customerHistory(ctx context.Context, req CustomerHistoryRequest, _ *mono.Msg) (CustomerHistoryResponse, error) {
	if req.Phone == "" {
		return CustomerHistoryResponse{}, fmt.Errorf("phone is required")
	}

	_, db, err := m.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return CustomerHistoryResponse{}, err
	}

	orders, returns, err := NewRepository(db, req.TenantID).CustomerHistory(req.Phone)
	if err != nil {
		return CustomerHistoryResponse{}, err
	}
	return CustomerHistoryResponse{OrderCount: orders, ReturnCount: returns}, nil
}

// publishReturned emits the OrderReturned event, best-effort.
func (m *OrderModule) publishReturned(tenantID string, o *domain.Order, restocked bool) {
	if m.eventBus == nil {
		return
	}
	event := events.OrderReturnedEvent{
		OrderID:    o.ID,
		TenantID:   tenantID,
		Restocked:  restocked,
		ReturnedAt: time.Now(),
	}
	if err := events.OrderReturnedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[order] Warning: failed to publish OrderReturned event for order %s: %v", o.ID, err)
	}
}

// describeItems renders order lines into the courier item description.
func describeItems(items []domain.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// toOrderResponse converts an order to its wire form.
func toOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID,
		Number:         o.Number,
		CustomerName:   o.CustomerName,
		Phone:          o.Phone,
		Address:        o.Address,
		Items:          make([]ItemResponse, 0, len(o.Items)),
		Status:         string(o.Status),
		TrackingNumber: o.TrackingNumber,
		TotalAmount:    o.TotalAmount,
		Logs:           make([]LogResponse, 0, len(o.Logs)),
		CreatedAt:      o.CreatedAt,
		ConfirmedAt:    o.ConfirmedAt,
		ShippedAt:      o.ShippedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	for _, l := range o.Logs {
		resp.Logs = append(resp.Logs, LogResponse{
			ID:        l.ID,
			Message:   l.Message,
			Actor:     l.Actor,
			CreatedAt: l.CreatedAt,
		})
	}
	return resp
}
