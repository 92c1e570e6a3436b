package order

import "fmt"

// Status is the lifecycle state of an order. The set is closed; transitions
// outside the table below are rejected rather than silently ignored.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusConfirmed        Status = "CONFIRMED"
	StatusShipped          Status = "SHIPPED"
	StatusDelivered        Status = "DELIVERED"
	StatusReturned         Status = "RETURNED"
	StatusReturnTransfer   Status = "RETURN_TRANSFER"
	StatusReturnAsOnSystem Status = "RETURN_AS_ON_SYSTEM"
	StatusReturnHandover   Status = "RETURN_HANDOVER"
	StatusReturnCompleted  Status = "RETURN_COMPLETED"
	StatusRejected         Status = "REJECTED"
	StatusCancelled        Status = "CANCELLED"
)

// transitions is the full legal transition table.
var transitions = map[Status][]Status{
	StatusPending:          {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:        {StatusShipped, StatusCancelled},
	StatusShipped:          {StatusDelivered, StatusReturned},
	StatusReturned:         {StatusReturnTransfer},
	StatusReturnTransfer:   {StatusReturnAsOnSystem},
	StatusReturnAsOnSystem: {StatusReturnHandover},
	StatusReturnHandover:   {StatusReturnCompleted},
}

// terminal states admit no further transitions.
var terminal = map[Status]bool{
	StatusDelivered:       true,
	StatusReturnCompleted: true,
	StatusRejected:        true,
	StatusCancelled:       true,
}

// ParseStatus validates a raw status string against the closed enumeration.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; ok {
		return s, nil
	}
	if terminal[s] {
		return s, nil
	}
	return "", fmt.Errorf("unknown order status: %q", raw)
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return terminal[s]
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ReturnFamily reports whether the status belongs to the return flow.
// The financial engine counts these together with RETURNED.
func (s Status) ReturnFamily() bool {
	switch s {
	case StatusReturned, StatusReturnTransfer, StatusReturnAsOnSystem,
		StatusReturnHandover, StatusReturnCompleted:
		return true
	}
	return false
}
