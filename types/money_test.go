package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   string
		currency string
	}{
		{"COP whole", COP(125000), "125000", "cop"},
		{"COP large", COP(500000), "500000", "cop"},
		{"Parse fractional", MustParse("500000.75", "cop"), "500000.75", "cop"},
		{"Parse other currency", MustParse("49.99", "USD"), "49.99", "usd"},
		{"Zero", Zero("COP"), "0", "cop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.StringAmount(); got != tt.amount {
				t.Errorf("Amount: got %s, want %s", got, tt.amount)
			}
			if got := tt.money.Currency(); got != tt.currency {
				t.Errorf("Currency: got %s, want %s", got, tt.currency)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return COP(100000).Add(COP(25000)) }, COP(125000)},
		{"Subtract", func() Money { return COP(500000).Subtract(COP(125000)) }, COP(375000)},
		{"Negate", func() Money { return COP(100).Negate() }, COP(-100)},
		{"Zero value adopts currency", func() Money { return Money{}.Add(COP(42)) }, COP(42)},
		{"Sum", func() Money { return Sum(COP(100), COP(200), COP(300)) }, COP(600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

// Values chosen to expose binary-float rounding if any operation
// ever routed through float64.
func TestMoneyDecimalExactness(t *testing.T) {
	balance := MustParse("500000.75", "cop")
	debit := MustParse("125000.50", "cop")

	got := balance.Subtract(debit)
	want := MustParse("375000.25", "cop")
	if !got.Equal(want) {
		t.Fatalf("500000.75 - 125000.50 = %s, want 375000.25", got.StringAmount())
	}

	back := got.Add(debit)
	if !back.Equal(balance) {
		t.Fatalf("round trip drifted: %s", back.StringAmount())
	}
}

func TestMoneyComparison(t *testing.T) {
	if !COP(49999).LessThan(COP(50000)) {
		t.Error("49999 should be less than 50000")
	}
	if COP(50000).LessThan(COP(50000)) {
		t.Error("equal amounts are not less than")
	}
	if !COP(50000).GreaterThanOrEqual(COP(50000)) {
		t.Error("equal amounts satisfy GreaterThanOrEqual")
	}
	if !MustParse("124999.99", "cop").LessThan(COP(125000)) {
		t.Error("one centavo short should compare below the minimum")
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	_ = COP(100).Add(MustParse("100", "usd"))
}

func TestMoneyJSON(t *testing.T) {
	m := MustParse("125000.50", "cop")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Amount != "125000.5" {
		t.Errorf("amount: got %s", decoded.Amount)
	}
	if decoded.Currency != "cop" {
		t.Errorf("currency: got %s", decoded.Currency)
	}

	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(m) {
		t.Errorf("round trip: got %v, want %v", back, m)
	}
}

func TestMoneyDisplay(t *testing.T) {
	m := COP(125000)
	if got := m.Display(); got != "COP $125,000.00" {
		t.Errorf("Display: got %q", got)
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	d := decimal.RequireFromString("75000")
	m := New(d, "COP")
	if !m.Equal(COP(75000)) {
		t.Errorf("New from decimal: got %v", m)
	}
}
