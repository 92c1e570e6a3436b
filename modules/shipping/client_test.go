package shipping

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func testShipment() *ShipmentRequest {
	return &ShipmentRequest{
		InvoiceRef:       "ORD-1234567890123",
		RecipientName:    "Test Customer",
		RecipientPhone:   "+880 171-234-5678",
		RecipientAddress: "House 1, Road 2, Dhaka",
		Description:      "Blue T-Shirt x2",
		CODAmount:        1500,
	}
}

func TestCreateShipment_Success(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	var gotAPIKey, gotSecret string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("Api-Key")
		gotSecret = r.Header.Get("Secret-Key")
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"status": 200, "waybill_no": "WB-12345"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	tracking, err := client.CreateShipment(context.Background(), testShipment(), CourierSettings{
		APIKey: "key-1",
		Secret: "secret-1",
		Mode:   ModeCreate,
	})
	if err != nil {
		t.Fatalf("CreateShipment() error = %v", err)
	}
	if tracking != "WB-12345" {
		t.Errorf("tracking = %q, want WB-12345", tracking)
	}

	if gotPath != "/api/v1/create_order" {
		t.Errorf("path = %q, want /api/v1/create_order", gotPath)
	}
	if gotAPIKey != "key-1" || gotSecret != "secret-1" {
		t.Errorf("credentials = %q/%q, want key-1/secret-1", gotAPIKey, gotSecret)
	}

	// Invoice is digits only, truncated to the courier's limit.
	if gotForm["invoice"] != "123456789012" {
		t.Errorf("invoice = %q, want 123456789012", gotForm["invoice"])
	}
	// Phone loses all formatting.
	if gotForm["recipient_phone"] != "8801712345678" {
		t.Errorf("recipient_phone = %q, want 8801712345678", gotForm["recipient_phone"])
	}
	// Weight defaults when unset.
	if gotForm["weight"] != "0.50" {
		t.Errorf("weight = %q, want 0.50", gotForm["weight"])
	}
	if gotForm["cod_amount"] != "1500.00" {
		t.Errorf("cod_amount = %q, want 1500.00", gotForm["cod_amount"])
	}
	if _, ok := gotForm["waybill_no"]; ok {
		t.Error("waybill_no sent in create mode")
	}
}

func TestCreateShipment_UpdateMode(t *testing.T) {
	var gotPath, gotWaybill string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotWaybill = r.PostForm.Get("waybill_no")
		w.Write([]byte(`{"status": 200, "waybill_no": "WB-OLD"}`))
	}))
	defer srv.Close()

	req := testShipment()
	req.WaybillNumber = "WB-OLD"

	client := NewClient(srv.URL)
	if _, err := client.CreateShipment(context.Background(), req, CourierSettings{Mode: ModeUpdate}); err != nil {
		t.Fatalf("CreateShipment() error = %v", err)
	}

	if gotPath != "/api/v1/update_order" {
		t.Errorf("path = %q, want /api/v1/update_order", gotPath)
	}
	if gotWaybill != "WB-OLD" {
		t.Errorf("waybill_no = %q, want WB-OLD", gotWaybill)
	}
}

func TestCreateShipment_DescriptionTruncated(t *testing.T) {
	var gotDescription string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotDescription = r.PostForm.Get("item_description")
		w.Write([]byte(`{"status": 200, "waybill_no": "WB-1"}`))
	}))
	defer srv.Close()

	req := testShipment()
	req.Description = strings.Repeat("x", 400)

	client := NewClient(srv.URL)
	if _, err := client.CreateShipment(context.Background(), req, CourierSettings{Mode: ModeCreate}); err != nil {
		t.Fatalf("CreateShipment() error = %v", err)
	}
	if len(gotDescription) != maxDescriptionLen {
		t.Errorf("description length = %d, want %d", len(gotDescription), maxDescriptionLen)
	}
}

func TestCreateShipment_CourierRejection(t *testing.T) {
	tests := []struct {
		code       int
		wantReason string
	}{
		{401, "invalid api key or secret key"},
		{402, "courier account inactive"},
		{503, "courier service under maintenance"},
		{999, "unknown courier status code 999"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": ` + strconv.Itoa(tt.code) + `}`))
		}))

		client := NewClient(srv.URL)
		_, err := client.CreateShipment(context.Background(), testShipment(), CourierSettings{Mode: ModeCreate})
		srv.Close()

		var courierErr *CourierError
		if !errors.As(err, &courierErr) {
			t.Fatalf("code %d: error = %v, want CourierError", tt.code, err)
		}
		if courierErr.Code != tt.code || courierErr.Reason != tt.wantReason {
			t.Errorf("code %d: got (%d, %q), want reason %q", tt.code, courierErr.Code, courierErr.Reason, tt.wantReason)
		}
	}
}

func TestCreateShipment_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>" + strings.Repeat("gateway error ", 50) + "</body></html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CreateShipment(context.Background(), testShipment(), CourierSettings{Mode: ModeCreate})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if transportErr.Excerpt == "" {
		t.Error("transport error carries no body excerpt")
	}
	if len(transportErr.Excerpt) > excerptLen {
		t.Errorf("excerpt length = %d, want at most %d", len(transportErr.Excerpt), excerptLen)
	}
}

func TestCreateShipment_CourierUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately closed

	client := NewClient(srv.URL)
	_, err := client.CreateShipment(context.Background(), testShipment(), CourierSettings{Mode: ModeCreate})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if transportErr.Cause == nil {
		t.Error("transport error has no cause for unreachable courier")
	}
}
