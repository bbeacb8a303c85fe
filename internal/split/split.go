// Package split computes the fixed-ratio two-party revenue split over
// inbound transactions and rolls results up per calendar month.
package split

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Calculator holds the split parties and party A's fraction of each
// inbound amount. The default mirrors the 20/80 arrangement the
// analyzer was built for.
type Calculator struct {
	PartyA string
	PartyB string
	RatioA decimal.Decimal
}

// NewCalculator returns a calculator with the default parties and ratio.
func NewCalculator() *Calculator {
	return &Calculator{
		PartyA: "Chiyuan",
		PartyB: "Jiahan",
		RatioA: decimal.New(20, -2),
	}
}

// Split returns the split record for an inbound transaction; debits and
// zero amounts produce no record. ShareA is rounded to two places and
// ShareB is the remainder, so the two shares always reconcile exactly
// to the transaction amount.
func (c *Calculator) Split(index int, t models.Transaction) (models.SplitRecord, bool) {
	if !t.IsCredit() {
		return models.SplitRecord{}, false
	}
	shareA := t.Amount.Mul(c.RatioA).Round(2)
	return models.SplitRecord{
		TransactionIndex: index,
		ShareA:           shareA,
		ShareB:           t.Amount.Sub(shareA),
	}, true
}

// Totals summarizes one transaction set.
type Totals struct {
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

// MonthSummary rolls up one calendar month.
type MonthSummary struct {
	Month         string                             `json:"month"`
	Inbound       decimal.Decimal                    `json:"inbound"`
	Outbound      decimal.Decimal                    `json:"outbound"`
	ShareA        decimal.Decimal                    `json:"shareA"`
	ShareB        decimal.Decimal                    `json:"shareB"`
	InboundCount  int                                `json:"inboundCount"`
	OutboundCount int                                `json:"outboundCount"`
	InboundByCat  map[models.Category]decimal.Decimal `json:"inboundByCategory,omitempty"`
	OutboundByCat map[models.Category]decimal.Decimal `json:"outboundByCategory,omitempty"`
}

// Analysis is the full deterministic aggregation over a parsed
// statement: the transactions, their split records, per-month rollups
// and overall totals.
type Analysis struct {
	Transactions []models.Transaction `json:"transactions"`
	Splits       []models.SplitRecord `json:"splits"`
	Months       []MonthSummary       `json:"months"`
	Totals       Totals               `json:"totals"`
	Warnings     models.Warnings      `json:"warnings"`
}

// Analyze computes splits, totals and monthly summaries for a
// statement. Ordering is deterministic: splits follow transaction
// order, months sort by month key.
func Analyze(st *models.Statement, calc *Calculator) *Analysis {
	a := &Analysis{
		Transactions: st.Transactions,
		Warnings:     st.Warnings,
		Totals: Totals{
			Credits: decimal.Zero,
			Debits:  decimal.Zero,
			Net:     decimal.Zero,
			Count:   len(st.Transactions),
		},
	}

	byMonth := map[string]*MonthSummary{}
	for i, t := range st.Transactions {
		a.Totals.Credits = a.Totals.Credits.Add(t.Credit())
		a.Totals.Debits = a.Totals.Debits.Add(t.Debit())
		a.Totals.Net = a.Totals.Net.Add(t.Amount)

		key := t.Month()
		m := byMonth[key]
		if m == nil {
			m = &MonthSummary{
				Month:         key,
				Inbound:       decimal.Zero,
				Outbound:      decimal.Zero,
				ShareA:        decimal.Zero,
				ShareB:        decimal.Zero,
				InboundByCat:  map[models.Category]decimal.Decimal{},
				OutboundByCat: map[models.Category]decimal.Decimal{},
			}
			byMonth[key] = m
		}

		if rec, ok := calc.Split(i, t); ok {
			a.Splits = append(a.Splits, rec)
			m.Inbound = m.Inbound.Add(t.Amount)
			m.ShareA = m.ShareA.Add(rec.ShareA)
			m.ShareB = m.ShareB.Add(rec.ShareB)
			m.InboundCount++
			m.InboundByCat[t.Category] = m.InboundByCat[t.Category].Add(t.Amount)
		} else if t.Amount.IsNegative() {
			m.Outbound = m.Outbound.Add(t.Amount.Neg())
			m.OutboundCount++
			m.OutboundByCat[t.Category] = m.OutboundByCat[t.Category].Add(t.Amount.Neg())
		}
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.Months = append(a.Months, *byMonth[k])
	}
	return a
}

// FilterRange keeps transactions whose date falls within [from, to],
// inclusive. A zero from or to leaves that end open.
func FilterRange(txns []models.Transaction, from, to time.Time) []models.Transaction {
	var out []models.Transaction
	for _, t := range txns {
		if !from.IsZero() && t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}
