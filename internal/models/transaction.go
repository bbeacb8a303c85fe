package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a keyword-derived tag describing what a transaction was for.
type Category string

const (
	CategoryEbayPayout Category = "ebay-payout"
	CategoryTransferIn Category = "transfer-in"
	CategoryCardOut    Category = "card-outgoing"
	CategoryOutgoingDD Category = "outgoing-dd"
	CategorySupplier   Category = "supplier"
	CategorySalary     Category = "salary"
	CategoryOther      Category = "other"
)

// Transaction is the final unit of record produced by a parse pass.
// Amount is signed: positive means money in (credit), negative money out
// (debit). Balance is the running balance printed on the statement line,
// when one was present; it is informational and never used in totals.
type Transaction struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    Category         `json:"category"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	SourceLine  int              `json:"sourceLine"`
}

// IsCredit reports whether the transaction brought money in.
func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// Debit returns the outbound magnitude, or zero for credits.
func (t Transaction) Debit() decimal.Decimal {
	if t.Amount.IsNegative() {
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// Credit returns the inbound magnitude, or zero for debits.
func (t Transaction) Credit() decimal.Decimal {
	if t.Amount.IsPositive() {
		return t.Amount
	}
	return decimal.Zero
}

// Month returns the calendar month key ("2025-09") the transaction falls in.
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// Warnings counts the non-fatal conditions encountered during a parse.
// Nothing in the core is fatal for data-quality reasons; the worst outcome
// is degraded accuracy surfaced through these counts.
type Warnings struct {
	MalformedLines   int `json:"malformedLines"`
	UnresolvedGroups int `json:"unresolvedGroups"`
}

// Any reports whether at least one warning was recorded.
func (w Warnings) Any() bool {
	return w.MalformedLines > 0 || w.UnresolvedGroups > 0
}

// Add accumulates another statement's warning counts into w.
func (w *Warnings) Add(other Warnings) {
	w.MalformedLines += other.MalformedLines
	w.UnresolvedGroups += other.UnresolvedGroups
}

// Statement is the result of parsing one statement's worth of lines.
type Statement struct {
	SourceFile   string        `json:"sourceFile,omitempty"`
	Transactions []Transaction `json:"transactions"`
	Warnings     Warnings      `json:"warnings"`
}

// SplitRecord carries the two-party revenue split of one inbound
// transaction. ShareA + ShareB always equals the transaction amount
// exactly: ShareA is rounded to two places and ShareB is the remainder,
// never independently rounded.
type SplitRecord struct {
	TransactionIndex int             `json:"transactionIndex"`
	ShareA           decimal.Decimal `json:"shareA"`
	ShareB           decimal.Decimal `json:"shareB"`
}
