// Package categorize maps transaction descriptions to category tags
// through ordered keyword rules: first match wins, default "other".
// Rules can be replaced from configuration; the compiled defaults cover
// the statement formats the analyzer targets.
package categorize

import (
	"strings"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Rule maps description keywords to one category. Keywords of up to
// three characters are matched as whole words (payment-type codes);
// longer keywords match as substrings.
type Rule struct {
	Category models.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// DefaultRules returns the built-in rule list, ordered by priority.
func DefaultRules() []Rule {
	return []Rule{
		{Category: models.CategoryEbayPayout, Keywords: []string{"EBAY"}},
		{Category: models.CategoryTransferIn, Keywords: []string{"PAYOUT", "SZZ TRADING", "TRANSFER IN"}},
		{Category: models.CategoryCardOut, Keywords: []string{"AMERICAN EXP", "AMEX", "VISA", "MASTERCARD", "CARD PAYMENT"}},
		{Category: models.CategoryOutgoingDD, Keywords: []string{"DD", "SO", "DIRECT DEBIT", "STANDING ORDER", "NOVUNA", "BP"}},
		{Category: models.CategorySalary, Keywords: []string{"SALARY", "WAGES", "PAYROLL"}},
		{Category: models.CategorySupplier, Keywords: []string{"SUPPLIER", "SUPPLIES", "WHOLESALE", "LTD", "LIMITED"}},
	}
}

// Categorizer evaluates a rule list over descriptions. It is stateless
// and safe for concurrent use.
type Categorizer struct {
	rules []Rule
}

// New builds a categorizer; a nil or empty rule list selects the defaults.
func New(rules []Rule) *Categorizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Categorizer{rules: rules}
}

// Categorize returns the first matching category for a description.
// There is no failure mode beyond the default.
func (c *Categorizer) Categorize(description string) models.Category {
	desc := strings.ToUpper(description)
	fields := strings.Fields(desc)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if matchKeyword(desc, fields, strings.ToUpper(kw)) {
				return rule.Category
			}
		}
	}
	return models.CategoryOther
}

// Apply stamps each transaction with its category, in place.
func (c *Categorizer) Apply(txns []models.Transaction) {
	for i := range txns {
		txns[i].Category = c.Categorize(txns[i].Description)
	}
}

func matchKeyword(desc string, fields []string, kw string) bool {
	if len(kw) <= 3 && !strings.Contains(kw, " ") {
		for _, f := range fields {
			if strings.Trim(f, ".,:;") == kw {
				return true
			}
		}
		return false
	}
	return strings.Contains(desc, kw)
}
