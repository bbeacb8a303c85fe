package parser

import (
	"regexp"
	"strings"
)

// LineClass is the coarse classification of one raw statement line.
// It is derived per line and never stored beyond classification.
type LineClass int

const (
	// ClassNoise marks footer boilerplate, phone numbers, and anything
	// else that cannot be a transaction.
	ClassNoise LineClass = iota
	// ClassBalanceHeader marks BALANCE BROUGHT/CARRIED FORWARD lines.
	// They carry a balance value but produce no transaction.
	ClassBalanceHeader
	// ClassTransaction marks a candidate transaction line: date prefix
	// plus at least one valid amount token.
	ClassTransaction
)

func (c LineClass) String() string {
	switch c {
	case ClassBalanceHeader:
		return "balance-header"
	case ClassTransaction:
		return "transaction"
	default:
		return "noise"
	}
}

var balanceHeaderPattern = regexp.MustCompile(
	`(?i)\bBALANCE\s+(?:BROUGHT|CARRIED)\s+FORWARD\b`)

// noisePhrases appear in statement footers: opening hours, contact
// guidance, regulatory boilerplate. A line containing any of them is
// never a transaction.
var noisePhrases = []string{
	"opening hours",
	"lines are open",
	"call us",
	"contact us",
	"contact the bank",
	"visit us",
	"customer service",
	"textphone",
	"minicom",
	"www.",
	"authorised by",
	"financial conduct",
	"registered in",
	"compensation scheme",
}

// Classify filters a raw line into transaction candidate, balance
// header, or noise. Balance headers take precedence because they may
// look amount-bearing but must never become transactions.
func Classify(line string) LineClass {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ClassNoise
	}

	if balanceHeaderPattern.MatchString(trimmed) {
		return ClassBalanceHeader
	}

	lower := strings.ToLower(trimmed)
	for _, phrase := range noisePhrases {
		if strings.Contains(lower, phrase) {
			return ClassNoise
		}
	}
	if ukPhonePattern.MatchString(trimmed) && !hasAmountToken(trimmed) {
		return ClassNoise
	}

	if !datePrefixPattern.MatchString(trimmed) {
		return ClassNoise
	}
	if !hasAmountToken(trimmed) {
		return ClassNoise
	}
	return ClassTransaction
}

func hasAmountToken(line string) bool {
	for _, f := range strings.Fields(line) {
		if isAmountToken(f) {
			return true
		}
	}
	return false
}
