package order

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/commerce-backend/domain/order"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound is returned when no order matches the lookup.
	ErrOrderNotFound = errors.New("order not found")
)

// ListFilter narrows an order listing.
type ListFilter struct {
	Search    string
	Status    domain.Status
	ProductID string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// Repository provides tenant-scoped access to order storage. It is
// constructed per request around the tenant's store handle.
type Repository struct {
	db       *gorm.DB
	tenantID string
}

// NewRepository creates an order repository bound to one tenant.
func NewRepository(db *gorm.DB, tenantID string) *Repository {
	return &Repository{db: db, tenantID: tenantID}
}

// Create stores a new order with its items.
func (r *Repository) Create(o *domain.Order) error {
	o.TenantID = r.tenantID
	if err := r.db.Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update replaces an order's customer fields, total and items. Status and
// lifecycle timestamps move only through the state machine.
func (r *Repository) Update(o *domain.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Order{}).
			Where("id = ? AND tenant_id = ?", o.ID, r.tenantID).
			Select("customer_name", "phone", "address", "total_amount").
			Updates(o)
		if result.Error != nil {
			return fmt.Errorf("failed to update order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}

		if err := tx.Where("order_id = ?", o.ID).Delete(&domain.Item{}).Error; err != nil {
			return fmt.Errorf("failed to clear items: %w", err)
		}
		for i := range o.Items {
			o.Items[i].ID = 0
			o.Items[i].OrderID = o.ID
			if err := tx.Create(&o.Items[i]).Error; err != nil {
				return fmt.Errorf("failed to store item: %w", err)
			}
		}
		return nil
	})
}

// FindByID retrieves an order with items and logs.
func (r *Repository) FindByID(id string) (*domain.Order, error) {
	return findByID(r.db, r.tenantID, id)
}

// FindByTrackingOrID looks an order up by tracking reference first, then
// by id and finally by order number, so return scans accept either key.
func (r *Repository) FindByTrackingOrID(key string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.Preload("Items").Preload("Logs").
		Where("tenant_id = ?", r.tenantID).
		Where("tracking_number = ? OR id = ? OR number = ?", key, key, key).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// List retrieves a filtered, paginated slice of orders plus the total
// match count.
func (r *Repository) List(f ListFilter) ([]domain.Order, int64, error) {
	q := r.db.Model(&domain.Order{}).Where("tenant_id = ?", r.tenantID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		s := "%" + f.Search + "%"
		q = q.Where(
			"id LIKE ? OR number LIKE ? OR customer_name LIKE ? OR phone LIKE ? OR tracking_number LIKE ?",
			s, s, s, s, s)
	}
	if f.ProductID != "" {
		q = q.Where("id IN (SELECT order_id FROM order_items WHERE product_id = ?)", f.ProductID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = 20
	}

	var orders []domain.Order
	err := q.Preload("Items").Preload("Logs").
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// DeleteByIDs removes orders with their items and logs.
func (r *Repository) DeleteByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Constrain to this tenant before touching children.
		var owned []string
		if err := tx.Model(&domain.Order{}).
			Where("tenant_id = ? AND id IN ?", r.tenantID, ids).
			Pluck("id", &owned).Error; err != nil {
			return err
		}
		if len(owned) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", owned).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id IN ?", owned).Delete(&domain.LogEntry{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id IN ?", r.tenantID, owned).Delete(&domain.Order{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders: %w", err)
	}
	return deleted, nil
}

// DeleteAll removes every order for the tenant.
func (r *Repository) DeleteAll() (int64, error) {
	var ids []string
	if err := r.db.Model(&domain.Order{}).
		Where("tenant_id = ?", r.tenantID).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to collect orders: %w", err)
	}
	return r.DeleteByIDs(ids)
}

// CustomerHistory counts orders and returns for a customer phone number,
// matched on the last 8 digits to tolerate formatting variance.
func (r *Repository) CustomerHistory(phone string) (orderCount, returnCount int, err error) {
	key := domain.PhoneKey(phone)
	if key == "" {
		return 0, 0, nil
	}

	var rows []struct {
		Phone  string
		Status domain.Status
	}
	if err := r.db.Model(&domain.Order{}).
		Where("tenant_id = ?", r.tenantID).
		Select("phone", "status").
		Find(&rows).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to load orders: %w", err)
	}

	for _, row := range rows {
		if domain.PhoneKey(row.Phone) != key {
			continue
		}
		orderCount++
		if row.Status.ReturnFamily() {
			returnCount++
		}
	}
	return orderCount, returnCount, nil
}

// findByID fetches a tenant-scoped order inside the given handle or
// transaction.
func findByID(tx *gorm.DB, tenantID, id string) (*domain.Order, error) {
	var o domain.Order
	err := tx.Preload("Items").Preload("Logs").
		First(&o, "id = ? AND tenant_id = ?", id, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}
