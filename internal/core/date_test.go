package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "ISO format", input: "2024-03-15", want: "2024-03-15"},
		{name: "Brazilian format", input: "15/03/2024", want: "2024-03-15"},
		{name: "invalid month", input: "2024-13-01", wantErr: true},
		{name: "nonexistent day", input: "31/02/2024", wantErr: true},
		{name: "US format rejected", input: "03/15/2024", wantErr: true},
		{name: "free text rejected", input: "ontem", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_BR(t *testing.T) {
	d := NewDate(2024, 3, 15)
	if got := d.BR(); got != "15/03/2024" {
		t.Errorf("BR() = %q, want %q", got, "15/03/2024")
	}
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2024, 2, 28)
	if got := d.AddDays(1).String(); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %s, want 2024-02-29 (leap year)", got)
	}
	if got := d.AddDays(-28).String(); got != "2024-01-31" {
		t.Errorf("AddDays(-28) = %s, want 2024-01-31", got)
	}
}
