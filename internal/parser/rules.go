package parser

import "strings"

// SignRule resolves a transaction's direction from its parsed candidate.
// Rules are pure predicates evaluated in order with the first match
// winning, so precedence lives in the rule list rather than in resolver
// control flow; adding a keyword or exception never touches the
// resolver itself.
type SignRule struct {
	Name  string
	Apply func(ParsedCandidate) (sign int, ok bool)
}

// outgoingCodes are payment-type codes and payee names that mark money
// out. The two-letter codes are matched as whole words so that, say, a
// payee containing "DDRAIG" is not mistaken for a direct debit.
var outgoingCodes = []string{"DD", "SO", "DR", "OBP", "AMERICAN EXP", "NOVUNA", "BP"}

// DefaultSignRules returns the built-in priority chain:
// explicit column semantics, then the inbound exception override, then
// the outgoing code set. The inbound exception sits above the outgoing
// rule because payout transfers often carry outgoing-looking codes in
// the same narrative.
func DefaultSignRules() []SignRule {
	return []SignRule{
		{Name: "explicit-column", Apply: explicitColumnSign},
		{Name: "inbound-exception", Apply: inboundExceptionSign},
		{Name: "outgoing-code", Apply: outgoingCodeSign},
	}
}

// explicitColumnSign honors a direction the source format stated
// outright: a debit/credit capture from a custom pattern, or a signed
// amount token. Highest priority; bypasses all heuristics.
func explicitColumnSign(c ParsedCandidate) (int, bool) {
	if c.Sign != 0 {
		return c.Sign, true
	}
	return 0, false
}

// inboundExceptionSign marks payouts and trading-partner transfers as
// money in, overriding any outgoing code in the same description.
func inboundExceptionSign(c ParsedCandidate) (int, bool) {
	desc := strings.ToUpper(c.Description)
	if strings.Contains(desc, "PAYOUT") {
		return 1, true
	}
	if strings.Contains(desc, "TRANSFER") &&
		(strings.Contains(desc, "SZZ TRADING") || strings.Contains(desc, "EBAY")) {
		return 1, true
	}
	return 0, false
}

func outgoingCodeSign(c ParsedCandidate) (int, bool) {
	desc := strings.ToUpper(c.Description)
	fields := strings.Fields(desc)
	for _, code := range outgoingCodes {
		if strings.Contains(code, " ") {
			if strings.Contains(desc, code) {
				return -1, true
			}
			continue
		}
		if len(code) > 3 {
			if strings.Contains(desc, code) {
				return -1, true
			}
			continue
		}
		for _, f := range fields {
			if strings.Trim(f, ".,:;") == code {
				return -1, true
			}
		}
	}
	return 0, false
}
