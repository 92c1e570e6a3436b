package order

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to shipped skips confirm", StatusPending, StatusShipped, false},
		{"confirmed to shipped", StatusConfirmed, StatusShipped, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed back to pending", StatusConfirmed, StatusPending, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to returned", StatusShipped, StatusReturned, true},
		{"returned to transfer", StatusReturned, StatusReturnTransfer, true},
		{"returned skips to completed", StatusReturned, StatusReturnCompleted, false},
		{"transfer to as-on-system", StatusReturnTransfer, StatusReturnAsOnSystem, true},
		{"as-on-system to handover", StatusReturnAsOnSystem, StatusReturnHandover, true},
		{"handover to completed", StatusReturnHandover, StatusReturnCompleted, true},
		{"delivered admits nothing", StatusDelivered, StatusReturned, false},
		{"cancelled admits nothing", StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	terminals := []Status{StatusDelivered, StatusReturnCompleted, StatusRejected, StatusCancelled}
	for _, s := range terminals {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}

	open := []Status{StatusPending, StatusConfirmed, StatusShipped, StatusReturned, StatusReturnHandover}
	for _, s := range open {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("SHIPPED"); err != nil {
		t.Errorf("ParseStatus(SHIPPED) error = %v", err)
	}
	if _, err := ParseStatus("RETURN_COMPLETED"); err != nil {
		t.Errorf("ParseStatus(RETURN_COMPLETED) error = %v", err)
	}
	if _, err := ParseStatus("shipped"); err == nil {
		t.Error("ParseStatus(shipped) expected error for lowercase input")
	}
	if _, err := ParseStatus("LOST"); err == nil {
		t.Error("ParseStatus(LOST) expected error for unknown status")
	}
}

func TestReturnFamily(t *testing.T) {
	family := []Status{StatusReturned, StatusReturnTransfer, StatusReturnAsOnSystem, StatusReturnHandover, StatusReturnCompleted}
	for _, s := range family {
		if !s.ReturnFamily() {
			t.Errorf("%s.ReturnFamily() = false, want true", s)
		}
	}
	if StatusDelivered.ReturnFamily() {
		t.Error("DELIVERED.ReturnFamily() = true, want false")
	}
	if StatusCancelled.ReturnFamily() {
		t.Error("CANCELLED.ReturnFamily() = true, want false")
	}
}
