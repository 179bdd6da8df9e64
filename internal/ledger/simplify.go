package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharedledger/internal/models"
)

// DefaultEpsilon is the tolerance below which a balance counts as settled.
var DefaultEpsilon = decimal.New(1, -2)

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	From   models.Participant // Person who owes
	To     models.Participant // Person who is owed
	Amount decimal.Decimal
}

type options struct {
	epsilon decimal.Decimal
}

// Option configures SimplifyDebts.
type Option func(*options)

// WithEpsilon overrides DefaultEpsilon. Negative values are treated as zero.
func WithEpsilon(eps decimal.Decimal) Option {
	return func(o *options) {
		if eps.IsNegative() {
			eps = decimal.Zero
		}
		o.epsilon = eps
	}
}

type account struct {
	who       models.Participant
	remaining decimal.Decimal
}

// SimplifyDebts produces transfers that bring every balance to within epsilon
// of zero, using greedy pairwise netting.
//
// Debtors are handled one at a time in first-seen order. Each debtor pays the
// creditors in first-seen order, min(debt left, credit left) at a time, until
// the debt is under epsilon. Creditors keep their remaining credit across
// debtors. The result has at most debtors+creditors-1 transfers; it is not
// guaranteed to be the minimum.
//
// The input is never modified. Settled input yields an empty, non-nil slice.
func SimplifyDebts(b *Balances, opts ...Option) []Transfer {
	o := options{epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(&o)
	}
	eps := o.epsilon

	var creditors, debtors []account
	for _, p := range b.order {
		amount := b.amounts[p]
		switch {
		case amount.GreaterThan(eps):
			creditors = append(creditors, account{who: p, remaining: amount})
		case amount.LessThan(eps.Neg()):
			debtors = append(debtors, account{who: p, remaining: amount.Abs()})
		}
	}

	transfers := make([]Transfer, 0, len(debtors)+len(creditors))
	for _, debtor := range debtors {
		remaining := debtor.remaining
		for i := range creditors {
			if !remaining.GreaterThan(eps) {
				break
			}
			creditor := &creditors[i]
			if !creditor.remaining.GreaterThan(eps) {
				continue
			}

			payment := decimal.Min(remaining, creditor.remaining)
			transfers = append(transfers, Transfer{
				From:   debtor.who,
				To:     creditor.who,
				Amount: payment,
			})

			remaining = remaining.Sub(payment)
			creditor.remaining = creditor.remaining.Sub(payment)
		}
	}

	return transfers
}

// Apply returns new balances with every transfer executed: the debtor's
// balance rises by the amount and the creditor's falls by it.
func Apply(b *Balances, transfers []Transfer) *Balances {
	out := b.Clone()
	for _, t := range transfers {
		out.add(t.From, t.Amount)
		out.add(t.To, t.Amount.Neg())
	}
	return out
}

// Settlement bundles balances with the transfers that settle them.
type Settlement struct {
	Balances  *Balances
	Transfers []Transfer
}

// Settle computes balances for expenses and the transfers that settle them.
func Settle(expenses []models.Expense, opts ...Option) (*Settlement, error) {
	balances, err := ComputeBalances(expenses)
	if err != nil {
		return nil, err
	}
	return &Settlement{
		Balances:  balances,
		Transfers: SimplifyDebts(balances, opts...),
	}, nil
}

// TotalDebt sums the absolute value of balances below -epsilon.
func TotalDebt(b *Balances, eps decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range b.amounts {
		if a.LessThan(eps.Neg()) {
			total = total.Add(a.Abs())
		}
	}
	return total
}
