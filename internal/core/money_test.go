package core

import (
	"errors"
	"testing"
)

func TestNewMoneyFromFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		want    int64
		wantErr bool
	}{
		{name: "simple amount", input: 12.34, want: 1234},
		{name: "integer amount", input: 45, want: 4500},
		{name: "third decimal rounds up", input: 12.346, want: 1235},
		{name: "third decimal rounds down", input: 12.344, want: 1234},
		{name: "one cent", input: 0.01, want: 1},
		{name: "zero is rejected", input: 0, wantErr: true},
		{name: "negative is rejected", input: -3.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMoneyFromFloat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("NewMoneyFromFloat(%v) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMoneyFromFloat(%v) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.want {
				t.Errorf("NewMoneyFromFloat(%v) = %d cents, want %d", tt.input, got.Cents, tt.want)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "no fraction", input: "120", want: 12000},
		{name: "empty", input: "", wantErr: true},
		{name: "explicit plus sign", input: "+10", wantErr: true},
		{name: "negative", input: "-10", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "garbage", input: "dez reais", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseMoney(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.want {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.input, got.Cents, tt.want)
			}
		})
	}
}

func TestMoney_BRL(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{name: "small amount", cents: 4500, want: "R$ 45,00"},
		{name: "thousands separator", cents: 123456, want: "R$ 1.234,56"},
		{name: "millions", cents: 123456789, want: "R$ 1.234.567,89"},
		{name: "cents only", cents: 7, want: "R$ 0,07"},
		{name: "negative balance", cents: -4500, want: "R$ -45,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Money{Cents: tt.cents}).BRL(); got != tt.want {
				t.Errorf("Money{%d}.BRL() = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestBalance_Net(t *testing.T) {
	b := Balance{Income: Money{Cents: 500000}, Expenses: Money{Cents: 123400}}
	if got := b.Net().Cents; got != 376600 {
		t.Errorf("Net() = %d, want 376600", got)
	}

	negative := Balance{Expenses: Money{Cents: 4500}}
	if got := negative.Net().Cents; got != -4500 {
		t.Errorf("Net() = %d, want -4500", got)
	}
}
