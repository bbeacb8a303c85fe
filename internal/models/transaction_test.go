package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionHelpers(t *testing.T) {
	credit := Transaction{
		Date:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("123.45"),
	}
	debit := Transaction{
		Date:   time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("-50.00"),
	}

	if !credit.IsCredit() || debit.IsCredit() {
		t.Error("IsCredit misclassifies signed amounts")
	}
	if credit.Credit().String() != "123.45" || !credit.Debit().IsZero() {
		t.Errorf("credit magnitudes: credit %s debit %s", credit.Credit(), credit.Debit())
	}
	if debit.Debit().String() != "50" || !debit.Credit().IsZero() {
		t.Errorf("debit magnitudes: credit %s debit %s", debit.Credit(), debit.Debit())
	}
	if credit.Month() != "2025-09" {
		t.Errorf("month: got %q", credit.Month())
	}
	if debit.Month() != "2025-12" {
		t.Errorf("month: got %q", debit.Month())
	}

	zero := Transaction{Amount: decimal.Zero}
	if zero.IsCredit() {
		t.Error("zero amount is not a credit")
	}
	if !zero.Debit().IsZero() || !zero.Credit().IsZero() {
		t.Error("zero amount has no magnitudes")
	}
}

func TestWarnings(t *testing.T) {
	var w Warnings
	if w.Any() {
		t.Error("empty warnings should report none")
	}
	w.Add(Warnings{MalformedLines: 2})
	w.Add(Warnings{MalformedLines: 1, UnresolvedGroups: 3})
	if !w.Any() {
		t.Error("warnings should report some")
	}
	if w.MalformedLines != 3 || w.UnresolvedGroups != 3 {
		t.Errorf("accumulated: %+v", w)
	}
}
