package api

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// TenantView is the tenant shape returned to API clients. Courier
// credentials never leave the server, so settings are reduced to the
// fee defaults and mode.
type TenantView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Domain      string  `json:"domain"`
	Active      bool    `json:"active"`
	DeliveryFee float64 `json:"delivery_fee"`
	ReturnFee   float64 `json:"return_fee"`
	CourierMode string  `json:"courier_mode"`
}

// TenantListResponse carries tenant views.
type TenantListResponse struct {
	Tenants []TenantView `json:"tenants"`
	Total   int          `json:"total"`
}
