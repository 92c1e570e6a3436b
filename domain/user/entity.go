package user

import (
	"time"
)

// User is a dashboard account. Users live in the core store and are scoped
// to a tenant by TenantID; authentication only establishes identity, role
// and tenant.
type User struct {
	ID           string    `gorm:"primarykey;size:36" json:"id"`
	TenantID     string    `gorm:"size:36;index;not null" json:"tenant_id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:operator" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for User model.
func (User) TableName() string {
	return "users"
}

// Claims is the authenticated identity handed to the rest of the system.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}
