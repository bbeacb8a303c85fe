package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// ErrNoInput is returned when a statement has no lines at all, the one
// truly absent-input condition the core treats as an error.
var ErrNoInput = errors.New("no statement lines")

// Options configure a parse session.
type Options struct {
	// CustomPattern, when non-empty, replaces the built-in tail
	// tokenizer with a PatternTokenizer compiled from it.
	CustomPattern string
	// Rules overrides the sign rule chain. Defaults to DefaultSignRules.
	Rules []SignRule
	// Logger receives per-line debug events. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Session runs the single-pass pipeline over one statement's lines:
// classify, tokenize, resolve. A session is reusable across statements;
// all cross-line state lives in the per-call resolver.
type Session struct {
	tokenizer Tokenizer
	custom    bool
	rules     []SignRule
	log       zerolog.Logger
}

// NewSession builds a session from options.
func NewSession(opts Options) (*Session, error) {
	s := &Session{
		tokenizer: TailTokenizer{},
		rules:     opts.Rules,
		log:       opts.Logger,
	}
	if s.rules == nil {
		s.rules = DefaultSignRules()
	}
	if opts.CustomPattern != "" {
		t, err := NewPatternTokenizer(opts.CustomPattern)
		if err != nil {
			return nil, err
		}
		s.tokenizer = t
		s.custom = true
	}
	return s, nil
}

// Parse consumes the ordered lines of one statement and produces the
// ordered transactions plus warning counts. Lines are processed
// strictly in document order: the resolver's balance state is
// sequentially dependent, so reordering changes results.
func (s *Session) Parse(lines []string) (*models.Statement, error) {
	if len(lines) == 0 {
		return nil, ErrNoInput
	}

	var warnings models.Warnings
	resolver := NewResolver(s.rules, &warnings)

	for i, text := range lines {
		line := RawLine{Text: normalizeLine(text), Index: i}
		if line.Text == "" {
			continue
		}

		if s.custom {
			s.observeCustom(resolver, line)
			continue
		}

		switch Classify(line.Text) {
		case ClassNoise:
			continue
		case ClassBalanceHeader:
			if bal, ok := trailingBalance(line.Text); ok {
				resolver.ObserveBalance(bal)
				s.log.Debug().Int("line", i).Str("balance", bal.String()).Msg("balance checkpoint")
			}
		case ClassTransaction:
			cand, err := s.tokenizer.Tokenize(line)
			if err != nil {
				warnings.MalformedLines++
				s.log.Debug().Int("line", i).Err(err).Msg("dropped malformed line")
				continue
			}
			resolver.Observe(cand)
		}
	}

	return &models.Statement{
		Transactions: resolver.Finish(),
		Warnings:     warnings,
	}, nil
}

// observeCustom runs a custom-pattern session's per-line step. Balance
// headers keep their usual meaning; lines the pattern does not match
// are skipped silently, the way the built-in classifier skips noise.
func (s *Session) observeCustom(resolver *Resolver, line RawLine) {
	if Classify(line.Text) == ClassBalanceHeader {
		if bal, ok := trailingBalance(line.Text); ok {
			resolver.ObserveBalance(bal)
		}
		return
	}
	cand, err := s.tokenizer.Tokenize(line)
	if err != nil {
		return
	}
	resolver.Observe(cand)
}

// Merge combines several statements into one ordered transaction list:
// duplicates (same date, amount, description) collapse to their first
// occurrence, and the result is sorted by date with document order
// preserved within a day. Warning counts are summed.
func Merge(statements ...*models.Statement) *models.Statement {
	merged := &models.Statement{}
	seen := map[string]bool{}
	for _, st := range statements {
		if st == nil {
			continue
		}
		merged.Warnings.Add(st.Warnings)
		for _, t := range st.Transactions {
			key := fmt.Sprintf("%s|%s|%s",
				t.Date.Format("2006-01-02"), t.Amount.String(), strings.ToUpper(t.Description))
			if seen[key] {
				continue
			}
			seen[key] = true
			merged.Transactions = append(merged.Transactions, t)
		}
	}
	sort.SliceStable(merged.Transactions, func(i, j int) bool {
		return merged.Transactions[i].Date.Before(merged.Transactions[j].Date)
	})
	return merged
}
