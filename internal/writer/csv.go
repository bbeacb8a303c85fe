package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/split"
)

// CSVWriter writes an analysis to CSV: one row per transaction with
// debit/credit magnitudes, the signed amount, the category, and the
// per-party shares for inbound rows.
type CSVWriter struct {
	IncludeHeader bool
	PartyA        string
	PartyB        string
}

// WriteToFile writes the analysis to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, a *split.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, a)
}

// Write writes the analysis in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, a *split.Analysis) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		writer.Write([]string{"# Transactions", fmt.Sprintf("%d", a.Totals.Count)})
		writer.Write([]string{"# Total Credits", a.Totals.Credits.StringFixed(2)})
		writer.Write([]string{"# Total Debits", a.Totals.Debits.StringFixed(2)})
		if a.Warnings.Any() {
			writer.Write([]string{"# Malformed Lines", fmt.Sprintf("%d", a.Warnings.MalformedLines)})
			writer.Write([]string{"# Unresolved Groups", fmt.Sprintf("%d", a.Warnings.UnresolvedGroups)})
		}
	}

	header := []string{"Date", "Description", "Category", "Debit", "Credit", "Amount", w.shareHeader(w.PartyA, "A"), w.shareHeader(w.PartyB, "B")}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	shares := map[int]models.SplitRecord{}
	for _, rec := range a.Splits {
		shares[rec.TransactionIndex] = rec
	}

	for i, txn := range a.Transactions {
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			string(txn.Category),
			formatAmount(txn.Debit()),
			formatAmount(txn.Credit()),
			txn.Amount.StringFixed(2),
			"",
			"",
		}
		if rec, ok := shares[i]; ok {
			row[6] = rec.ShareA.StringFixed(2)
			row[7] = rec.ShareB.StringFixed(2)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func (w *CSVWriter) shareHeader(party, fallback string) string {
	if party == "" {
		return "Share " + fallback
	}
	return party + " Share"
}

func formatAmount(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return amount.StringFixed(2)
}
