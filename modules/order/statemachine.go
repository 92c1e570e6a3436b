package order

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/commerce-backend/domain/order"
	"github.com/example/commerce-backend/modules/inventory"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrInvalidTransition is returned when a state machine precondition
	// is violated.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Confirm moves a PENDING order to CONFIRMED inside one transaction,
// deducting every line item from the ledger FIFO. The deduction is
// all-or-nothing: if any line cannot be covered the transaction rolls
// back and the order is untouched. Running status change and stock
// mutation in the same transaction closes the half-committed window the
// two-write approach would leave open.
func Confirm(tx *gorm.DB, tenantID, orderID, actor string) (*domain.Order, error) {
	o, err := findByID(tx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: confirm requires PENDING, order is %s", ErrInvalidTransition, o.Status)
	}

	if err := inventory.Deduct(tx, tenantID, o.RequiredQuantities()); err != nil {
		return nil, err
	}

	now := time.Now()
	o.Status = domain.StatusConfirmed
	o.ConfirmedAt = &now
	if err := tx.Model(&domain.Order{}).Where("id = ?", o.ID).
		Updates(map[string]any{"status": o.Status, "confirmed_at": now}).Error; err != nil {
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}
	if err := appendLog(tx, o, "Order confirmed, stock deducted", actor); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkShipped records a successful courier dispatch. The courier call
// itself happens outside the transaction; this only commits the result.
func MarkShipped(tx *gorm.DB, tenantID, orderID, trackingNumber, actor string) (*domain.Order, error) {
	o, err := findByID(tx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.StatusConfirmed {
		return nil, fmt.Errorf("%w: ship requires CONFIRMED, order is %s", ErrInvalidTransition, o.Status)
	}

	now := time.Now()
	o.Status = domain.StatusShipped
	o.TrackingNumber = trackingNumber
	o.ShippedAt = &now
	if err := tx.Model(&domain.Order{}).Where("id = ?", o.ID).
		Updates(map[string]any{
			"status":          o.Status,
			"tracking_number": trackingNumber,
			"shipped_at":      now,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order shipped: %w", err)
	}
	if err := appendLog(tx, o, fmt.Sprintf("Shipped via courier, tracking %s", trackingNumber), actor); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkDelivered moves a SHIPPED order to DELIVERED.
func MarkDelivered(tx *gorm.DB, tenantID, orderID, actor string) (*domain.Order, error) {
	o, err := findByID(tx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.StatusShipped {
		return nil, fmt.Errorf("%w: deliver requires SHIPPED, order is %s", ErrInvalidTransition, o.Status)
	}

	o.Status = domain.StatusDelivered
	if err := tx.Model(&domain.Order{}).Where("id = ?", o.ID).
		Update("status", o.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order delivered: %w", err)
	}
	if err := appendLog(tx, o, "Order delivered", actor); err != nil {
		return nil, err
	}
	return o, nil
}

// Transition applies a manual operator-driven status move against the
// transition table. Arrival at RETURN_COMPLETED triggers the restock.
func Transition(tx *gorm.DB, tenantID, orderID string, to domain.Status, actor string) (*domain.Order, error) {
	o, err := findByID(tx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	if to == domain.StatusReturnCompleted {
		return completeReturn(tx, o, actor)
	}

	o.Status = to
	if err := tx.Model(&domain.Order{}).Where("id = ?", o.ID).
		Update("status", to).Error; err != nil {
		return nil, fmt.Errorf("failed to transition order: %w", err)
	}
	if err := appendLog(tx, o, fmt.Sprintf("Status moved to %s", to), actor); err != nil {
		return nil, err
	}
	return o, nil
}

// CompleteReturn drives a scanned return straight to RETURN_COMPLETED and
// restocks every line. A terminal order is left untouched; the restock
// happens at most once regardless of how often the scan is repeated.
// It reports whether a restock was performed.
func CompleteReturn(tx *gorm.DB, tenantID string, o *domain.Order, actor string) (*domain.Order, bool, error) {
	if o.Status.Terminal() {
		return o, false, nil
	}
	out, err := completeReturn(tx, o, actor)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// completeReturn performs the restock and the final status flip. Restock
// quantities are the original line item quantities; the order is always
// trusted over the already-reduced batch state.
func completeReturn(tx *gorm.DB, o *domain.Order, actor string) (*domain.Order, error) {
	for _, it := range o.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		if _, err := inventory.Restock(tx, o.TenantID, it.ProductID, it.Quantity); err != nil {
			// A deleted product cannot take stock back; the return still
			// completes for the remaining lines.
			if errors.Is(err, inventory.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
	}

	o.Status = domain.StatusReturnCompleted
	if err := tx.Model(&domain.Order{}).Where("id = ?", o.ID).
		Update("status", o.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to complete return: %w", err)
	}
	if err := appendLog(tx, o, "Return completed, stock restored", actor); err != nil {
		return nil, err
	}
	return o, nil
}

// appendLog appends an immutable log entry to the order.
func appendLog(tx *gorm.DB, o *domain.Order, message, actor string) error {
	entry := domain.LogEntry{
		ID:        uuid.New().String(),
		OrderID:   o.ID,
		Message:   message,
		Actor:     actor,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append order log: %w", err)
	}
	o.Logs = append(o.Logs, entry)
	return nil
}
