package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date prefix found on HSBC-style statement lines: two-digit day,
// three-letter month abbreviation, two- or four-digit year.
// Example: "01 Sep 25", "15 Jan 2024".
var datePrefixPattern = regexp.MustCompile(
	`(?i)^(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{4}|\d{2})\b`)

// amountTokenPattern matches a monetary token: optional minus sign or
// accounting parentheses, optional pound sign, digits with correctly
// grouped thousands separators (or none at all), and exactly two decimal
// places. Digit runs without a decimal point (phone numbers, account
// numbers) never match.
var amountTokenPattern = regexp.MustCompile(
	`^\(?-?£?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\)?$`)

// ukPhonePattern matches phone-number-shaped digit runs such as
// "03457 404 404" or "0800 169 1234".
var ukPhonePattern = regexp.MustCompile(`\b0\d{3,4}[\s-]\d{3,4}[\s-]\d{3,4}\b`)

var monthsByAbbr = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "£", "£")
	line = strings.ReplaceAll(line, "​", "")
	line = strings.ReplaceAll(line, " ", " ")
	return strings.TrimSpace(line)
}

// isAmountToken reports whether a single whitespace-separated field is a
// valid monetary token.
func isAmountToken(field string) bool {
	return amountTokenPattern.MatchString(strings.TrimSpace(field))
}

// parseAmountToken converts a token like "1,234.56", "£25.99", "-50.00"
// or "(50.00)" to a positive magnitude plus a negative marker for the
// explicitly signed forms.
func parseAmountToken(field string) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(field)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "£")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("invalid amount token %q: %w", field, err)
	}
	return d, neg, nil
}

// parseStatementDate builds a time.Time from the datePrefixPattern
// submatches. Two-digit years map to 20xx.
func parseStatementDate(day, mon, year string) (time.Time, error) {
	month, ok := monthsByAbbr[strings.ToLower(mon)]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month abbreviation %q", mon)
	}
	d := 0
	for _, r := range day {
		d = d*10 + int(r-'0')
	}
	y := 0
	for _, r := range year {
		y = y*10 + int(r-'0')
	}
	if len(year) == 2 {
		y += 2000
	}
	if d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("day %d out of range", d)
	}
	return time.Date(y, month, d, 0, 0, 0, 0, time.UTC), nil
}

// flexibleDateLayouts are tried in order by parseFlexibleDate. Custom
// patterns may capture dates in formats other than the statement's own.
var flexibleDateLayouts = []string{
	"02 Jan 06",
	"2 Jan 06",
	"02 Jan 2006",
	"2 Jan 2006",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2006-01-02",
	"02-Jan-06",
	"02-Jan-2006",
}

// parseFlexibleDate parses a date captured by a custom pattern.
func parseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range flexibleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// trailingBalance extracts the rightmost amount token on a line, used
// for balance header lines that carry a balance but no transaction.
func trailingBalance(line string) (decimal.Decimal, bool) {
	fields := strings.Fields(line)
	for i := len(fields) - 1; i >= 0; i-- {
		if isAmountToken(fields[i]) {
			v, neg, err := parseAmountToken(fields[i])
			if err != nil {
				return decimal.Decimal{}, false
			}
			if neg {
				v = v.Neg()
			}
			return v, true
		}
	}
	return decimal.Decimal{}, false
}
