package parser

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// PatternTokenizer matches lines against a user-supplied regular
// expression with named capture groups. It implements the same
// candidate-producing contract as TailTokenizer and replaces it for the
// whole session when configured.
//
// Required groups: "date", "description", and either "amount" or at
// least one of "debit"/"credit". A debit capture yields an explicit
// negative sign, a credit capture an explicit positive one.
type PatternTokenizer struct {
	re        *regexp.Regexp
	hasAmount bool
	hasDebit  bool
	hasCredit bool
}

// NewPatternTokenizer compiles and validates a custom pattern.
func NewPatternTokenizer(expr string) (*PatternTokenizer, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("custom pattern: %w", err)
	}

	groups := map[string]bool{}
	for _, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = true
		}
	}
	if !groups["date"] || !groups["description"] {
		return nil, fmt.Errorf("custom pattern must capture %q and %q groups", "date", "description")
	}
	t := &PatternTokenizer{
		re:        re,
		hasAmount: groups["amount"],
		hasDebit:  groups["debit"],
		hasCredit: groups["credit"],
	}
	if !t.hasAmount && !t.hasDebit && !t.hasCredit {
		return nil, fmt.Errorf("custom pattern must capture %q or %q/%q groups", "amount", "debit", "credit")
	}
	return t, nil
}

// Tokenize applies the pattern to one line. Lines the pattern does not
// match are malformed from the session's point of view; the session
// treats them as skippable rather than counting them, matching how an
// unmatched line behaves under the built-in classifier.
func (t *PatternTokenizer) Tokenize(line RawLine) (ParsedCandidate, error) {
	m := t.re.FindStringSubmatch(line.Text)
	if m == nil {
		return ParsedCandidate{}, fmt.Errorf("%w: custom pattern did not match (line %d)", ErrMalformedLine, line.Index)
	}

	group := func(name string) string {
		for i, n := range t.re.SubexpNames() {
			if n == name && i < len(m) {
				return m[i]
			}
		}
		return ""
	}

	date, err := parseFlexibleDate(group("date"))
	if err != nil {
		return ParsedCandidate{}, fmt.Errorf("%w: %v (line %d)", ErrMalformedLine, err, line.Index)
	}

	cand := ParsedCandidate{
		Date:        date,
		Description: normalizeLine(group("description")),
		SourceLine:  line.Index,
	}

	var magnitude decimal.Decimal
	switch {
	case t.hasDebit && group("debit") != "":
		v, _, perr := parseAmountToken(group("debit"))
		if perr != nil {
			return ParsedCandidate{}, fmt.Errorf("%w: %v (line %d)", ErrMalformedLine, perr, line.Index)
		}
		magnitude = v
		cand.Sign = -1
	case t.hasCredit && group("credit") != "":
		v, _, perr := parseAmountToken(group("credit"))
		if perr != nil {
			return ParsedCandidate{}, fmt.Errorf("%w: %v (line %d)", ErrMalformedLine, perr, line.Index)
		}
		magnitude = v
		cand.Sign = 1
	case t.hasAmount && group("amount") != "":
		v, neg, perr := parseAmountToken(group("amount"))
		if perr != nil {
			return ParsedCandidate{}, fmt.Errorf("%w: %v (line %d)", ErrMalformedLine, perr, line.Index)
		}
		magnitude = v
		if neg {
			cand.Sign = -1
		}
	default:
		return ParsedCandidate{}, fmt.Errorf("%w: no amount captured (line %d)", ErrMalformedLine, line.Index)
	}

	cand.Amounts = []decimal.Decimal{magnitude}
	return cand, nil
}
