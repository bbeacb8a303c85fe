package parser

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// oneCent is the reconciliation tolerance for balance-driven backfill.
var oneCent = decimal.New(1, -2)

// Resolver carries the cross-line state of one parse pass: the last
// known balance, and the run of candidates seen since it. The run is
// buffered so that transactions commit in document order even when some
// of them wait for a balance checkpoint to learn their sign. Resolver
// state is scoped to a single statement; statements never share one.
type Resolver struct {
	rules       []SignRule
	lastBalance *decimal.Decimal
	window      []windowEntry
	out         []models.Transaction
	warnings    *models.Warnings
}

type windowEntry struct {
	cand ParsedCandidate
	sign int // 0 while awaiting balance-driven backfill
}

// NewResolver builds a resolver around the given rule chain. Warning
// counts accumulate into w.
func NewResolver(rules []SignRule, w *models.Warnings) *Resolver {
	return &Resolver{rules: rules, warnings: w}
}

// Observe feeds the next candidate through the rule chain. Candidates
// no rule decides join the pending group; a candidate that carries a
// printed balance additionally closes the group by reconciling it
// against that balance.
func (r *Resolver) Observe(cand ParsedCandidate) {
	sign := 0
	for _, rule := range r.rules {
		if s, ok := rule.Apply(cand); ok {
			sign = s
			break
		}
	}
	r.window = append(r.window, windowEntry{cand: cand, sign: sign})

	if bal, ok := cand.Balance(); ok {
		r.reconcile(bal)
	}
}

// ObserveBalance records a balance checkpoint that is not itself a
// transaction (BALANCE BROUGHT/CARRIED FORWARD lines).
func (r *Resolver) ObserveBalance(bal decimal.Decimal) {
	r.reconcile(bal)
}

// Finish resolves any group still open at end of statement. With no
// trailing balance left to reconcile against, the outgoing default
// applies and the group is flagged.
func (r *Resolver) Finish() []models.Transaction {
	if r.pendingCount() > 0 {
		r.warnings.UnresolvedGroups++
	}
	r.flush(-1)
	return r.out
}

func (r *Resolver) pendingCount() int {
	n := 0
	for _, e := range r.window {
		if e.sign == 0 {
			n++
		}
	}
	return n
}

// reconcile closes the current window against a confirmed balance.
// delta = newBalance − lastKnownBalance must be met exactly by the sum
// of the window's signed amounts. Amounts already signed by the rule
// chain are subtracted from delta first; the unsigned remainder then
// takes the uniform sign that makes the books balance to within one
// cent. When no uniform sign reconciles, the group is flagged
// unresolved and committed with the outgoing default; reported, not
// fatal.
func (r *Resolver) reconcile(newBalance decimal.Decimal) {
	pendingSum := decimal.Zero
	signedSum := decimal.Zero
	pending := 0
	for _, e := range r.window {
		if e.sign == 0 {
			pending++
			pendingSum = pendingSum.Add(e.cand.Amount())
		} else if e.sign > 0 {
			signedSum = signedSum.Add(e.cand.Amount())
		} else {
			signedSum = signedSum.Sub(e.cand.Amount())
		}
	}

	switch {
	case pending == 0:
		r.flush(0)

	case r.lastBalance == nil:
		// No anchor before the group; nothing to reconcile against.
		r.warnings.UnresolvedGroups++
		r.flush(-1)

	default:
		residual := newBalance.Sub(*r.lastBalance).Sub(signedSum)
		if !residual.IsZero() && pendingSum.Sub(residual.Abs()).Abs().Cmp(oneCent) <= 0 {
			if residual.IsPositive() {
				r.flush(1)
			} else {
				r.flush(-1)
			}
		} else {
			r.warnings.UnresolvedGroups++
			r.flush(-1)
		}
	}

	b := newBalance
	r.lastBalance = &b
}

// flush commits the window in document order and resets it.
// pendingSign applies to entries the rule chain left undecided;
// consecutive unresolved runs are predominantly outgoing batches, hence
// the negative default.
func (r *Resolver) flush(pendingSign int) {
	for _, e := range r.window {
		sign := e.sign
		if sign == 0 {
			sign = pendingSign
			if sign == 0 {
				sign = -1
			}
		}
		r.commit(e.cand, sign)
	}
	r.window = r.window[:0]
}

func (r *Resolver) commit(c ParsedCandidate, sign int) {
	amount := c.Amount()
	if sign < 0 {
		amount = amount.Neg()
	}
	t := models.Transaction{
		Date:        c.Date,
		Description: c.Description,
		Amount:      amount,
		SourceLine:  c.SourceLine,
	}
	if bal, ok := c.Balance(); ok {
		b := bal
		t.Balance = &b
	}
	r.out = append(r.out, t)
}
