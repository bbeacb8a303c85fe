package parser

import (
	"errors"
	"testing"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func mustSession(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSession_PayoutLine(t *testing.T) {
	s := mustSession(t, Options{})

	st, err := s.Parse([]string{"01 Sep 25 EBAY PAYOUT 123.45 7,890.12"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(st.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(st.Transactions))
	}
	txn := st.Transactions[0]
	if txn.Description != "EBAY PAYOUT" {
		t.Errorf("description: got %q", txn.Description)
	}
	if txn.Amount.String() != "123.45" {
		t.Errorf("amount: got %s, want 123.45", txn.Amount)
	}
	if txn.Date.Format("2006-01-02") != "2025-09-01" {
		t.Errorf("date: got %s", txn.Date.Format("2006-01-02"))
	}
	if txn.Balance == nil || txn.Balance.String() != "7890.12" {
		t.Errorf("balance: got %v, want 7890.12", txn.Balance)
	}
	if st.Warnings.Any() {
		t.Errorf("unexpected warnings: %+v", st.Warnings)
	}
}

func TestSession_OutgoingCodeAndBackfill(t *testing.T) {
	s := mustSession(t, Options{})

	lines := []string{
		"BALANCE BROUGHT FORWARD 1,000.00",
		"02 Sep 25 NOVUNA DD 150.00",
		"03 Sep 25 CORNER SHOP 25.00",
		"04 Sep 25 MARKET STALL 25.00",
		"BALANCE CARRIED FORWARD 800.00",
	}
	st, err := s.Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(st.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(st.Transactions))
	}
	for i, want := range []string{"-150", "-25", "-25"} {
		if got := st.Transactions[i].Amount.String(); got != want {
			t.Errorf("amount %d: got %s, want %s", i, got, want)
		}
	}
	if st.Warnings.Any() {
		t.Errorf("unexpected warnings: %+v", st.Warnings)
	}
}

func TestSession_OverdrawnBalanceBackfill(t *testing.T) {
	s := mustSession(t, Options{})

	// The balance falls from zero to overdrawn, so the purchase must
	// come out negative without the group being flagged.
	st, err := s.Parse([]string{
		"BALANCE BROUGHT FORWARD 0.00",
		"01 Sep 25 SHOP PURCHASE 100.00 (100.00)",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(st.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(st.Transactions))
	}
	txn := st.Transactions[0]
	if txn.Amount.String() != "-100" {
		t.Errorf("amount: got %s, want -100", txn.Amount)
	}
	if txn.Balance == nil || txn.Balance.String() != "-100" {
		t.Errorf("balance: got %v, want -100", txn.Balance)
	}
	if st.Warnings.Any() {
		t.Errorf("unexpected warnings: %+v", st.Warnings)
	}
}

func TestSession_NoiseAndMalformedLines(t *testing.T) {
	s := mustSession(t, Options{})

	lines := []string{
		"Call us on 0345 600 2323",
		"www.example-bank.co.uk",
		"02 Sep 25 BROKEN LINE NO AMOUNT",
		"02 Sep 25 45.00",
		"03 Sep 25 AMERICAN EXP 42.00",
	}
	st, err := s.Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(st.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(st.Transactions))
	}
	if st.Transactions[0].Amount.String() != "-42" {
		t.Errorf("amount: got %s, want -42", st.Transactions[0].Amount)
	}
	// Lines without an amount token fail classification outright and are
	// treated as noise; only the date-and-amount line with no description
	// counts as malformed.
	if st.Warnings.MalformedLines != 1 {
		t.Errorf("malformed lines: got %d, want 1", st.Warnings.MalformedLines)
	}
}

func TestSession_EmptyInput(t *testing.T) {
	s := mustSession(t, Options{})

	if _, err := s.Parse(nil); !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
	if _, err := s.Parse([]string{}); !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
}

func TestSession_Deterministic(t *testing.T) {
	s := mustSession(t, Options{})

	lines := []string{
		"BALANCE BROUGHT FORWARD 500.00",
		"01 Sep 25 EBAY PAYOUT 100.00",
		"02 Sep 25 CORNER SHOP 60.00",
		"BALANCE CARRIED FORWARD 540.00",
	}
	first, err := s.Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := s.Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(first.Transactions) != len(second.Transactions) {
		t.Fatalf("run lengths differ: %d vs %d", len(first.Transactions), len(second.Transactions))
	}
	for i := range first.Transactions {
		a, b := first.Transactions[i], second.Transactions[i]
		if !a.Amount.Equal(b.Amount) || a.Description != b.Description || !a.Date.Equal(b.Date) {
			t.Errorf("transaction %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestMerge_DedupeAndSort(t *testing.T) {
	s := mustSession(t, Options{})

	a, err := s.Parse([]string{
		"03 Sep 25 EBAY PAYOUT 200.00",
		"01 Sep 25 EBAY PAYOUT 100.00",
	})
	if err != nil {
		t.Fatalf("Parse a: %v", err)
	}
	b, err := s.Parse([]string{
		"01 Sep 25 EBAY PAYOUT 100.00",
		"02 Sep 25 NOVUNA DD 50.00",
	})
	if err != nil {
		t.Fatalf("Parse b: %v", err)
	}

	merged := Merge(a, b)
	if len(merged.Transactions) != 3 {
		t.Fatalf("expected 3 transactions after dedupe, got %d", len(merged.Transactions))
	}
	for i, want := range []string{"2025-09-01", "2025-09-02", "2025-09-03"} {
		if got := merged.Transactions[i].Date.Format("2006-01-02"); got != want {
			t.Errorf("date %d: got %s, want %s", i, got, want)
		}
	}
}

func TestMerge_SkipsNil(t *testing.T) {
	merged := Merge(nil, &models.Statement{})
	if len(merged.Transactions) != 0 {
		t.Errorf("expected empty merge, got %d transactions", len(merged.Transactions))
	}
}
