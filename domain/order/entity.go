package order

import (
	"strings"
	"time"
)

// Order represents a customer order owned by a single tenant.
type Order struct {
	ID             string     `gorm:"primarykey;size:36" json:"id"`
	TenantID       string     `gorm:"size:36;index;not null" json:"tenant_id"`
	Number         string     `gorm:"size:20;index" json:"number"`
	CustomerName   string     `gorm:"size:200" json:"customer_name"`
	Phone          string     `gorm:"size:32;index" json:"phone"`
	Address        string     `gorm:"size:500" json:"address"`
	Items          []Item     `gorm:"foreignKey:OrderID" json:"items"`
	Status         Status     `gorm:"size:32;index;not null" json:"status"`
	TrackingNumber string     `gorm:"size:64;index" json:"tracking_number"`
	TotalAmount    float64    `gorm:"not null" json:"total_amount"`
	Logs           []LogEntry `gorm:"foreignKey:OrderID" json:"logs"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
}

// TableName returns the table name for Order model.
func (Order) TableName() string {
	return "orders"
}

// Item is a single order line.
type Item struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	OrderID   string  `gorm:"size:36;index;not null" json:"order_id"`
	ProductID string  `gorm:"size:36;index" json:"product_id"`
	Name      string  `gorm:"size:200" json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
}

// TableName returns the table name for Item model.
func (Item) TableName() string {
	return "order_items"
}

// LogEntry is an immutable, append-only record of something that happened
// to an order.
type LogEntry struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	OrderID   string    `gorm:"size:36;index;not null" json:"order_id"`
	Message   string    `gorm:"size:500;not null" json:"message"`
	Actor     string    `gorm:"size:100" json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for LogEntry model.
func (LogEntry) TableName() string {
	return "order_logs"
}

// ItemTotal returns the sum of quantity x unit price across all lines.
func (o *Order) ItemTotal() float64 {
	total := 0.0
	for _, it := range o.Items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

// RequiredQuantities aggregates the requested quantity per product across
// all lines. Lines without a product reference are skipped.
func (o *Order) RequiredQuantities() map[string]int {
	required := make(map[string]int, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID == "" {
			continue
		}
		required[it.ProductID] += it.Quantity
	}
	return required
}

// NormalizePhone strips every non-digit character from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneKey returns the last 8 digits of a phone number, the key used for
// customer history matching. Matching on a suffix tolerates country codes
// and formatting variance.
func PhoneKey(phone string) string {
	digits := NormalizePhone(phone)
	if len(digits) <= 8 {
		return digits
	}
	return digits[len(digits)-8:]
}
