package tenant

import (
	"strings"
	"time"
)

// Tenant represents an isolated merchant account with its own data store.
type Tenant struct {
	ID        string        `gorm:"primarykey;size:36" json:"id"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Domain    string        `gorm:"size:255;index" json:"domain"`
	StoreDSN  string        `gorm:"size:255" json:"store_dsn"`
	Active    bool          `gorm:"not null;default:true" json:"active"`
	Settings  Settings      `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	Aliases   []DomainAlias `gorm:"foreignKey:TenantID" json:"aliases"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName returns the table name for Tenant model.
func (Tenant) TableName() string {
	return "tenants"
}

// Settings holds the operational defaults for a tenant.
type Settings struct {
	DeliveryFee   float64 `json:"delivery_fee"`
	ReturnFee     float64 `json:"return_fee"`
	CourierAPIKey string  `gorm:"size:128" json:"-"`
	CourierSecret string  `gorm:"size:128" json:"-"`
	CourierMode   string  `gorm:"size:20" json:"courier_mode"`
}

// DomainAlias is an additional hostname that resolves to a tenant.
type DomainAlias struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	TenantID string `gorm:"size:36;index;not null" json:"tenant_id"`
	Domain   string `gorm:"size:255;not null" json:"domain"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for DomainAlias model.
func (DomainAlias) TableName() string {
	return "domain_aliases"
}

// NormalizeHost lowercases a hostname, strips any port and drops a
// leading "www." so that matching is tolerant of how browsers send hosts.
func NormalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(h, ':'); i >= 0 {
		h = h[:i]
	}
	h = strings.TrimPrefix(h, "www.")
	return h
}

// MatchesHost reports whether the given host resolves to this tenant,
// either via its primary domain or one of its active aliases.
func (t *Tenant) MatchesHost(host string) bool {
	h := NormalizeHost(host)
	if h == "" {
		return false
	}
	if NormalizeHost(t.Domain) == h {
		return true
	}
	for _, alias := range t.Aliases {
		if alias.Active && NormalizeHost(alias.Domain) == h {
			return true
		}
	}
	return false
}
