package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{"whole amount", "100", 10000, false},
		{"two decimals", "12.34", 1234, false},
		{"rounds half up", "0.005", 1, false},
		{"zero", "0", 0, false},
		{"negative rejected", "-5.00", 0, true},
		{"garbage rejected", "abc", 0, true},
		{"empty rejected", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1050}
	b := Money{Cents: 250}

	if got := a.Add(b); got.Cents != 1300 {
		t.Errorf("Add = %d, want 1300", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 800 {
		t.Errorf("Sub = %d, want 800", got.Cents)
	}
	if got := b.Sub(a); got.Cents != -800 {
		t.Errorf("Sub may go negative, got %d, want -800", got.Cents)
	}
	if !a.GTE(b) || b.GTE(a) {
		t.Error("GTE ordering is wrong")
	}
	if !a.GTE(a) {
		t.Error("GTE should hold for equal amounts")
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 123450}).String(); got != "1234.50" {
		t.Errorf("String = %q, want \"1234.50\"", got)
	}
	if got := (Money{}).String(); got != "0.00" {
		t.Errorf("zero String = %q, want \"0.00\"", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "12.34" {
		t.Errorf("Marshal = %s, want 12.34", out)
	}

	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{"number", "12.34", 1234, false},
		{"integer", "100", 10000, false},
		{"quoted string", `"55.10"`, 5510, false},
		{"negative number", "-1", 0, true},
		{"negative string", `"-1"`, 0, true},
		{"non-numeric", `"abc"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			err := json.Unmarshal([]byte(tt.input), &m)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if m.Cents != tt.wantCents {
				t.Errorf("Unmarshal(%s) = %d cents, want %d", tt.input, m.Cents, tt.wantCents)
			}
		})
	}
}

func TestNewMoneyRounding(t *testing.T) {
	// Sub-cent precision rounds half up at the cent boundary.
	if got := NewMoney(decimal.NewFromFloat(1.005)); got.Cents != 101 {
		t.Errorf("NewMoney(1.005) = %d, want 101", got.Cents)
	}
	if got := NewMoney(decimal.NewFromFloat(1.004)); got.Cents != 100 {
		t.Errorf("NewMoney(1.004) = %d, want 100", got.Cents)
	}
}
