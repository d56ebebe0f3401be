package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateAmountWithFee(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		fee           string
		amountWithFee string
	}{
		{"round hundred", "100.00", "0.50", "100.50"},
		{"half cent fee rounds up", "99.99", "0.50", "100.49"},
		{"one unit", "1.00", "0.01", "1.01"},
		{"tiny amount has no fee", "0.50", "0.00", "0.50"},
		{"amount rounded before adding", "10.005", "0.05", "10.06"},
		{"zero", "0", "0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateAmountWithFee(decimal.RequireFromString(tt.amount))

			if !result.Fee.Equal(decimal.RequireFromString(tt.fee)) {
				t.Errorf("Expected fee %s, got %s", tt.fee, result.Fee.String())
			}
			if !result.AmountWithFee.Equal(decimal.RequireFromString(tt.amountWithFee)) {
				t.Errorf("Expected amount with fee %s, got %s", tt.amountWithFee, result.AmountWithFee.String())
			}
		})
	}
}

func TestCalculateAmountWithFee_Deterministic(t *testing.T) {
	amount := decimal.RequireFromString("1234.56")

	first := CalculateAmountWithFee(amount)
	second := CalculateAmountWithFee(amount)

	if !first.AmountWithFee.Equal(second.AmountWithFee) || !first.Fee.Equal(second.Fee) {
		t.Errorf("Expected identical results, got %v and %v", first, second)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		wantErr  bool
	}{
		{"50", "50.00", false},
		{"-50", "50.00", false},
		{"--12.345", "12.35", false},
		{"1-0", "10.00", false},
		{" 7.1 ", "7.10", false},
		{"0", "0.00", false},
		{"", "", true},
		{"-", "", true},
		{"abc", "", true},
		{"1e2000000", "", true},
		{"1E2", "", true},
		{"999999999999.99", "999999999999.99", false},
		{"1000000000000", "", true},
		{"0.0000000000000000001", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			amount, err := ParseAmount(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %s", tt.raw, amount.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) failed: %v", tt.raw, err)
			}
			if !amount.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("Expected %s, got %s", tt.expected, amount.String())
			}
		})
	}
}

func TestCheckBounds(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{"ordinary", decimal.RequireFromString("1250.48"), false},
		{"zero", decimal.Zero, false},
		{"three decimals", decimal.RequireFromString("10.005"), false},
		{"largest accepted", decimal.RequireFromString("999999999999.99"), false},
		{"huge positive exponent", decimal.New(1, 2000000), true},
		{"huge negative exponent", decimal.New(1, -2000000), true},
		{"zero with huge exponent", decimal.New(0, 2000000), true},
		{"thirteen integer digits", decimal.New(1, 12), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBounds(tt.amount)
			if tt.wantErr && !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Expected ErrOutOfRange, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	if got := Round(decimal.RequireFromString("2.345")); got.String() != "2.35" {
		t.Errorf("Expected 2.35, got %s", got.String())
	}
	if got := Round(decimal.RequireFromString("-2.345")); got.String() != "-2.35" {
		t.Errorf("Expected -2.35, got %s", got.String())
	}
}

func TestFormat(t *testing.T) {
	if got := Format(decimal.NewFromInt(5)); got != "5.00" {
		t.Errorf("Expected 5.00, got %s", got)
	}
}
