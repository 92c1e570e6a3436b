package tenant

import "testing"

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shop.Example.COM", "shop.example.com"},
		{"www.shop.example.com", "shop.example.com"},
		{"shop.example.com:8080", "shop.example.com"},
		{"  www.Shop.Example.com:443 ", "shop.example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeHost(tt.in); got != tt.want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchesHost(t *testing.T) {
	tn := &Tenant{
		ID:     "t1",
		Domain: "www.mainshop.com",
		Aliases: []DomainAlias{
			{Domain: "shop.example.com", Active: true},
			{Domain: "old.example.com", Active: false},
		},
	}

	tests := []struct {
		name string
		host string
		want bool
	}{
		{"primary domain", "mainshop.com", true},
		{"primary with www on both sides", "www.mainshop.com", true},
		{"active alias", "shop.example.com", true},
		{"active alias with www prefix", "www.shop.example.com", true},
		{"active alias mixed case with port", "Shop.Example.COM:443", true},
		{"inactive alias rejected", "old.example.com", false},
		{"unknown host", "other.example.com", false},
		{"empty host", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tn.MatchesHost(tt.host); got != tt.want {
				t.Errorf("MatchesHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}
