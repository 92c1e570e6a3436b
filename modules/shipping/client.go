package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// createPath is the courier endpoint for standard waybill creation.
	createPath = "/api/v1/create_order"
	// updatePath is the courier endpoint for updating an existing waybill.
	updatePath = "/api/v1/update_order"

	// maxDescriptionLen is the courier's item description limit.
	maxDescriptionLen = 250
	// maxInvoiceLen is the courier's numeric invoice identifier limit.
	maxInvoiceLen = 12
	// defaultWeightKG is used when the caller supplies no parcel weight.
	defaultWeightKG = 0.5
	// excerptLen bounds the raw-body sample carried by TransportError.
	excerptLen = 200

	// ModeCreate requests a new waybill; ModeUpdate updates an existing one.
	ModeCreate = "create"
	ModeUpdate = "update"
)

// courierResponse is the courier's JSON reply.
type courierResponse struct {
	Status    int    `json:"status"`
	WaybillNo string `json:"waybill_no"`
}

// Client talks to the carrier's HTTP API. It applies no timeout or retry
// of its own; callers bound the call through the context.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a courier client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// CreateShipment submits a shipment to the courier and returns the
// assigned waybill number. A non-success status code yields a
// CourierError; an unreachable courier or non-JSON body yields a
// TransportError. Order and ledger state are untouched either way.
func (c *Client) CreateShipment(ctx context.Context, req *ShipmentRequest, settings CourierSettings) (string, error) {
	form := url.Values{}
	form.Set("invoice", numericOnly(req.InvoiceRef, maxInvoiceLen))
	form.Set("recipient_name", req.RecipientName)
	form.Set("recipient_phone", numericOnly(req.RecipientPhone, 0))
	form.Set("recipient_address", req.RecipientAddress)
	form.Set("item_description", truncate(req.Description, maxDescriptionLen))
	form.Set("cod_amount", fmt.Sprintf("%.2f", req.CODAmount))

	weight := req.WeightKG
	if weight <= 0 {
		weight = defaultWeightKG
	}
	form.Set("weight", fmt.Sprintf("%.2f", weight))

	path := createPath
	if settings.Mode == ModeUpdate {
		path = updatePath
		form.Set("waybill_no", req.WaybillNumber)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", &TransportError{Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Api-Key", settings.APIKey)
	httpReq.Header.Set("Secret-Key", settings.Secret)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &TransportError{Cause: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", &TransportError{Cause: err}
	}

	var resp courierResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &TransportError{Excerpt: truncate(string(body), excerptLen)}
	}

	if resp.Status != CourierStatusOK {
		return "", &CourierError{Code: resp.Status, Reason: ReasonFor(resp.Status)}
	}
	return resp.WaybillNo, nil
}

// numericOnly strips every non-digit rune, optionally truncating to max.
func numericOnly(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// truncate bounds a string to n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TimeoutHint is the latency budget callers are expected to apply via
// context; the client itself never times out.
const TimeoutHint = 15 * time.Second
