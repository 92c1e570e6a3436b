package order

import (
	"context"
	"fmt"
	"strings"
	"testing"

	domain "github.com/example/commerce-backend/domain/order"
	"github.com/example/commerce-backend/modules/shipping"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/example/commerce-backend/store"
	"gorm.io/gorm"
)

// fakeTenantPort resolves every lookup to one fixed tenant.
type fakeTenantPort struct {
	tenant tenant.Context
}

func (f *fakeTenantPort) Resolve(_ context.Context, _ *tenant.ResolveRequest) (*tenant.Context, error) {
	tc := f.tenant
	return &tc, nil
}

func (f *fakeTenantPort) Upsert(_ context.Context, _ *tenant.UpsertRequest) (*tenant.Context, error) {
	return nil, nil
}

func (f *fakeTenantPort) Deactivate(_ context.Context, _ string) error { return nil }

func (f *fakeTenantPort) List(_ context.Context) (*tenant.ListResponse, error) { return nil, nil }

// fakeShipperPort records the last shipment and returns a scripted result.
type fakeShipperPort struct {
	lastRequest *shipping.CreateShipmentRequest
	response    shipping.CreateShipmentResponse
}

func (f *fakeShipperPort) CreateShipment(_ context.Context, req *shipping.CreateShipmentRequest) (*shipping.CreateShipmentResponse, error) {
	f.lastRequest = req
	resp := f.response
	return &resp, nil
}

func setupTestModule(t *testing.T) (*OrderModule, *fakeShipperPort, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	router := store.NewRouter("shared", func(string) (*gorm.DB, error) { return db, nil })

	shipper := &fakeShipperPort{
		response: shipping.CreateShipmentResponse{OK: true, TrackingNumber: "WB-100"},
	}
	counter := 0
	m := &OrderModule{
		router: router,
		tenants: &fakeTenantPort{tenant: tenant.Context{
			ID:     "t1",
			Name:   "Test Shop",
			Active: true,
			Settings: tenant.Settings{
				CourierAPIKey: "key",
				CourierSecret: "secret",
				CourierMode:   shipping.ModeCreate,
			},
		}},
		shipper: shipper,
		newNumber: func() string {
			counter++
			return fmt.Sprintf("%010d", counter)
		},
	}
	return m, shipper, db
}

func TestUpsert_CreatesPendingOrder(t *testing.T) {
	m, _, _ := setupTestModule(t)

	resp, err := m.upsert(context.Background(), UpsertOrderRequest{
		TenantID:     "t1",
		CustomerName: "Alice",
		Phone:        "01712345678",
		Items: []ItemInput{
			{ProductID: "p1", Name: "Shirt", Quantity: 2, UnitPrice: 500},
			{ProductID: "p2", Name: "Cap", Quantity: 1, UnitPrice: 250},
		},
	}, nil)
	if err != nil {
		t.Fatalf("upsert() error = %v", err)
	}

	if resp.Status != string(domain.StatusPending) {
		t.Errorf("status = %s, want PENDING", resp.Status)
	}
	if resp.Number == "" || resp.ID == "" {
		t.Error("order id or number not generated")
	}
	// Total derived from lines when not supplied.
	if resp.TotalAmount != 1250 {
		t.Errorf("total = %v, want derived 1250", resp.TotalAmount)
	}
}

func TestUpsert_UpdateKeepsStatus(t *testing.T) {
	m, _, db := setupTestModule(t)
	o := seedOrder(t, db, "t1", domain.StatusConfirmed,
		domain.Item{ProductID: "p1", Name: "Shirt", Quantity: 1, UnitPrice: 500},
	)

	resp, err := m.upsert(context.Background(), UpsertOrderRequest{
		TenantID:     "t1",
		ID:           o.ID,
		CustomerName: "Renamed Customer",
		Items:        []ItemInput{{ProductID: "p1", Name: "Shirt", Quantity: 3, UnitPrice: 500}},
	}, nil)
	if err != nil {
		t.Fatalf("upsert() error = %v", err)
	}

	if resp.Status != string(domain.StatusConfirmed) {
		t.Errorf("status = %s after update, want CONFIRMED preserved", resp.Status)
	}
	if resp.CustomerName != "Renamed Customer" {
		t.Errorf("customer = %q, want renamed", resp.CustomerName)
	}
	if len(resp.Items) != 1 || resp.Items[0].Quantity != 3 {
		t.Errorf("items = %+v, want replaced with qty 3", resp.Items)
	}
}

func TestBulkUpsert_IndependentRecords(t *testing.T) {
	m, _, _ := setupTestModule(t)

	resp, err := m.bulkUpsert(context.Background(), BulkUpsertRequest{
		TenantID: "t1",
		Orders: []UpsertOrderRequest{
			{CustomerName: "Alice", Items: []ItemInput{{Name: "Shirt", Quantity: 1, UnitPrice: 100}}},
			{CustomerName: "", Items: []ItemInput{{Name: "Cap", Quantity: 1, UnitPrice: 100}}}, // invalid
			{CustomerName: "Carol", Items: []ItemInput{{Name: "Hat", Quantity: 2, UnitPrice: 200}}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("bulkUpsert() error = %v", err)
	}

	if resp.Succeeded != 2 || resp.Failed != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 2/1", resp.Succeeded, resp.Failed)
	}
	if resp.Results[1].Error == "" {
		t.Error("failed record carries no error")
	}
	if resp.Results[0].OrderID == "" || resp.Results[2].OrderID == "" {
		t.Error("successful records carry no order id")
	}
}

func TestShip_DispatchesAndCommits(t *testing.T) {
	m, shipper, db := setupTestModule(t)
	o := seedOrder(t, db, "t1", domain.StatusConfirmed,
		domain.Item{ProductID: "p1", Name: "Blue Shirt", Quantity: 2, UnitPrice: 500},
	)

	resp, err := m.ship(context.Background(), ActionRequest{TenantID: "t1", OrderID: o.ID, Actor: "alice"}, nil)
	if err != nil {
		t.Fatalf("ship() error = %v", err)
	}

	if resp.Status != string(domain.StatusShipped) || resp.TrackingNumber != "WB-100" {
		t.Errorf("order = %s/%s, want SHIPPED/WB-100", resp.Status, resp.TrackingNumber)
	}

	sent := shipper.lastRequest
	if sent == nil {
		t.Fatal("no shipment dispatched")
	}
	if sent.Settings.APIKey != "key" || sent.Settings.Mode != shipping.ModeCreate {
		t.Errorf("courier settings = %+v, want tenant's key and mode", sent.Settings)
	}
	if !strings.Contains(sent.Shipment.Description, "Blue Shirt x2") {
		t.Errorf("description = %q, want item lines", sent.Shipment.Description)
	}
	if sent.Shipment.CODAmount != o.TotalAmount {
		t.Errorf("cod amount = %v, want %v", sent.Shipment.CODAmount, o.TotalAmount)
	}
}

func TestShip_CourierFailureLeavesOrderUntouched(t *testing.T) {
	m, shipper, db := setupTestModule(t)
	shipper.response = shipping.CreateShipmentResponse{
		OK:            false,
		FailureKind:   "courier",
		FailureCode:   402,
		FailureReason: "courier account inactive",
	}
	o := seedOrder(t, db, "t1", domain.StatusConfirmed)

	_, err := m.ship(context.Background(), ActionRequest{TenantID: "t1", OrderID: o.ID}, nil)
	if err == nil {
		t.Fatal("ship() expected error on courier rejection")
	}
	if !strings.Contains(err.Error(), "courier account inactive") {
		t.Errorf("error = %v, want courier reason surfaced", err)
	}

	stored, findErr := findByID(db, "t1", o.ID)
	if findErr != nil {
		t.Fatalf("findByID() error = %v", findErr)
	}
	if stored.Status != domain.StatusConfirmed || stored.TrackingNumber != "" {
		t.Errorf("order = %s/%q after failed dispatch, want CONFIRMED with no tracking", stored.Status, stored.TrackingNumber)
	}
}

func TestShip_RequiresConfirmed(t *testing.T) {
	m, shipper, db := setupTestModule(t)
	o := seedOrder(t, db, "t1", domain.StatusPending)

	_, err := m.ship(context.Background(), ActionRequest{TenantID: "t1", OrderID: o.ID}, nil)
	if err == nil {
		t.Fatal("ship() expected error for PENDING order")
	}
	if shipper.lastRequest != nil {
		t.Error("courier called for an unconfirmed order")
	}
}

func TestScanReturn_ByTrackingKey(t *testing.T) {
	m, _, db := setupTestModule(t)
	o := seedOrder(t, db, "t1", domain.StatusShipped)
	if err := db.Model(&domain.Order{}).Where("id = ?", o.ID).
		Update("tracking_number", "WB-55").Error; err != nil {
		t.Fatalf("failed to set tracking: %v", err)
	}

	resp, err := m.scanReturn(context.Background(), ScanReturnRequest{TenantID: "t1", Key: "WB-55", Actor: "alice"}, nil)
	if err != nil {
		t.Fatalf("scanReturn() error = %v", err)
	}
	if !resp.Restocked {
		t.Error("first scan did not restock")
	}
	if resp.Order.Status != string(domain.StatusReturnCompleted) {
		t.Errorf("status = %s, want RETURN_COMPLETED", resp.Order.Status)
	}

	// A second scan is a no-op.
	again, err := m.scanReturn(context.Background(), ScanReturnRequest{TenantID: "t1", Key: "WB-55"}, nil)
	if err != nil {
		t.Fatalf("second scanReturn() error = %v", err)
	}
	if again.Restocked {
		t.Error("second scan restocked again")
	}
}
