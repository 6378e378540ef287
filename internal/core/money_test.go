package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.50", 1250, false},
		{"12,50", 1250, false},
		{"12", 1200, false},
		{"0.05", 5, false},
		{".5", 50, false},
		{" 7.1 ", 710, false},
		{"", 0, true},
		{"12.505", 0, true},
		{"-3.00", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDecimalToCents(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 1250}).String(); got != "12.50" {
		t.Errorf("got %s, want 12.50", got)
	}
	if got := (Money{Cents: -5}).String(); got != "-0.05" {
		t.Errorf("got %s, want -0.05", got)
	}
	if got := (Money{}).String(); got != "0.00" {
		t.Errorf("got %s, want 0.00", got)
	}
}
