package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedLine marks a transaction-candidate line that could not be
// tokenized. Such lines are dropped and counted, never fatal.
var ErrMalformedLine = errors.New("malformed statement line")

// RawLine is one line of statement text plus its sequential position in
// the document.
type RawLine struct {
	Text  string
	Index int
}

// ParsedCandidate is the typed output of tokenizing a transaction line.
// Amounts holds the trailing numeric tokens in print order: either
// [amount] or [amount, balance]: the balance is rightmost on the
// statement, the amount second-rightmost. Sign is non-zero only when
// the source marked the direction explicitly (signed token, or a
// debit/credit capture group from a custom pattern).
type ParsedCandidate struct {
	Date        time.Time
	Description string
	Amounts     []decimal.Decimal
	Sign        int
	SourceLine  int
}

// Amount returns the transaction magnitude (always present).
func (c ParsedCandidate) Amount() decimal.Decimal {
	return c.Amounts[0]
}

// Balance returns the printed running balance, when the line had one.
func (c ParsedCandidate) Balance() (decimal.Decimal, bool) {
	if len(c.Amounts) == 2 {
		return c.Amounts[1], true
	}
	return decimal.Decimal{}, false
}

// Tokenizer turns a transaction-candidate line into a ParsedCandidate.
// The built-in implementation is TailTokenizer; a PatternTokenizer can
// be plugged in per session via configuration.
type Tokenizer interface {
	Tokenize(line RawLine) (ParsedCandidate, error)
}

// TailTokenizer extracts date, description and trailing numeric tokens
// by scanning the line right-to-left for maximal amount-token runs.
type TailTokenizer struct{}

// Tokenize expects a line already classed as a transaction candidate.
// The scan collects at most two trailing tokens and stops at the first
// field that is not a valid amount token; everything between the date
// prefix and the first captured token is the description.
func (TailTokenizer) Tokenize(line RawLine) (ParsedCandidate, error) {
	text := strings.TrimSpace(line.Text)

	m := datePrefixPattern.FindStringSubmatch(text)
	if m == nil {
		return ParsedCandidate{}, fmt.Errorf("%w: no date prefix (line %d)", ErrMalformedLine, line.Index)
	}
	date, err := parseStatementDate(m[1], m[2], m[3])
	if err != nil {
		return ParsedCandidate{}, fmt.Errorf("%w: %v (line %d)", ErrMalformedLine, err, line.Index)
	}

	rest := strings.TrimSpace(text[len(m[0]):])
	fields := strings.Fields(rest)

	var amounts []decimal.Decimal
	var negs []bool
	cut := len(fields)
	for i := len(fields) - 1; i >= 0 && len(amounts) < 2; i-- {
		if !isAmountToken(fields[i]) {
			break
		}
		v, neg, perr := parseAmountToken(fields[i])
		if perr != nil {
			break
		}
		amounts = append([]decimal.Decimal{v}, amounts...)
		negs = append([]bool{neg}, negs...)
		cut = i
	}
	if len(amounts) == 0 {
		return ParsedCandidate{}, fmt.Errorf("%w: no trailing amount token (line %d)", ErrMalformedLine, line.Index)
	}
	// An overdrawn printed balance keeps its sign; the transaction
	// amount stays a magnitude with Sign carrying direction.
	if len(amounts) == 2 && negs[1] {
		amounts[1] = amounts[1].Neg()
	}

	cand := ParsedCandidate{
		Date:        date,
		Description: strings.Join(fields[:cut], " "),
		Amounts:     amounts,
		SourceLine:  line.Index,
	}
	if negs[0] {
		cand.Sign = -1
	}
	if cand.Description == "" {
		return ParsedCandidate{}, fmt.Errorf("%w: empty description (line %d)", ErrMalformedLine, line.Index)
	}
	return cand, nil
}
