package parser

import (
	"testing"
	"time"
)

func TestIsAmountToken(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"25.99", true},
		{"1,234.56", true},
		{"£25.99", true},
		{"-25.99", true},
		{"(50.00)", true},
		{"£1,234,567.89", true},
		{"7890.12", true},
		{"0.00", true},
		// wrong decimal places
		{"25.9", false},
		{"25.999", false},
		{"25", false},
		// wrong grouping
		{"1,23.45", false},
		{"12,34.56", false},
		{"1,2345.67", false},
		// phone-number-shaped runs
		{"03457", false},
		{"404", false},
		{"03457404404", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isAmountToken(tt.input); got != tt.expected {
				t.Errorf("isAmountToken(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseAmountToken(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantNeg bool
	}{
		{"25.99", "25.99", false},
		{"1,234.56", "1234.56", false},
		{"£25.99", "25.99", false},
		{"-25.99", "25.99", true},
		{"(50.00)", "50", true},
		{"£1,234,567.89", "1234567.89", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, neg, err := parseAmountToken(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			if neg != tt.wantNeg {
				t.Errorf("neg: got %v, want %v", neg, tt.wantNeg)
			}
		})
	}
}

func TestParseStatementDate(t *testing.T) {
	got, err := parseStatementDate("01", "Sep", "25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = parseStatementDate("15", "jan", "2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := parseStatementDate("32", "Jan", "24"); err == nil {
		t.Error("expected error for out-of-range day")
	}
	if _, err := parseStatementDate("01", "Foo", "24"); err == nil {
		t.Error("expected error for unknown month")
	}
}

func TestTrailingBalance(t *testing.T) {
	bal, ok := trailingBalance("BALANCE BROUGHT FORWARD 7,766.67")
	if !ok {
		t.Fatal("expected balance")
	}
	if bal.String() != "7766.67" {
		t.Errorf("got %s, want 7766.67", bal)
	}

	if _, ok := trailingBalance("BALANCE CARRIED FORWARD"); ok {
		t.Error("expected no balance on amount-less header")
	}
}
