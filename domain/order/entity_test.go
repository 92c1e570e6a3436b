package order

import "testing"

func TestPhoneKey(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"plain local number", "01712345678", "12345678"},
		{"formatted with country code", "+880 171-234-5678", "12345678"},
		{"short number kept whole", "345678", "345678"},
		{"exactly eight digits", "12345678", "12345678"},
		{"empty", "", ""},
		{"non-digits only", "abc-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneKey(tt.phone); got != tt.want {
				t.Errorf("PhoneKey(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestRequiredQuantities(t *testing.T) {
	o := &Order{
		Items: []Item{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p1", Quantity: 3},
			{ProductID: "", Quantity: 5}, // free-text line, no stock impact
		},
	}

	got := o.RequiredQuantities()
	if len(got) != 2 {
		t.Fatalf("RequiredQuantities() has %d products, want 2", len(got))
	}
	if got["p1"] != 5 {
		t.Errorf("p1 quantity = %d, want 5", got["p1"])
	}
	if got["p2"] != 1 {
		t.Errorf("p2 quantity = %d, want 1", got["p2"])
	}
}

func TestItemTotal(t *testing.T) {
	o := &Order{
		Items: []Item{
			{Quantity: 2, UnitPrice: 500},
			{Quantity: 1, UnitPrice: 250},
		},
	}
	if got := o.ItemTotal(); got != 1250 {
		t.Errorf("ItemTotal() = %v, want 1250", got)
	}
}
