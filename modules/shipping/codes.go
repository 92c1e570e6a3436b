package shipping

import "fmt"

// CourierStatusOK is the courier's numeric success code.
const CourierStatusOK = 200

// statusReasons maps the courier's numeric response codes to
// human-readable failure reasons.
var statusReasons = map[int]string{
	400: "insufficient or invalid request fields",
	401: "invalid api key or secret key",
	402: "courier account inactive",
	404: "unknown waybill number",
	429: "too many requests",
	503: "courier service under maintenance",
}

// ReasonFor returns the mapped reason for a courier status code, with a
// fallback for codes outside the table.
func ReasonFor(code int) string {
	if reason, ok := statusReasons[code]; ok {
		return reason
	}
	return fmt.Sprintf("unknown courier status code %d", code)
}

// CourierError is a domain-level rejection by the carrier: the request
// reached the courier and was refused with a status code.
type CourierError struct {
	Code   int
	Reason string
}

// Error implements the error interface.
func (e *CourierError) Error() string {
	return fmt.Sprintf("courier rejected request (code %d): %s", e.Code, e.Reason)
}

// TransportError is a transport-level failure: the courier was unreachable
// or returned a body that is not valid JSON. Excerpt carries a truncated
// sample of the raw response for diagnostics.
type TransportError struct {
	Cause   error
	Excerpt string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("courier transport failure: %v", e.Cause)
	}
	return fmt.Sprintf("courier returned non-JSON response: %q", e.Excerpt)
}

// Unwrap exposes the underlying cause, if any.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
