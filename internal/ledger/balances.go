// Package ledger computes participant balances from shared expenses and turns
// them into a settlement plan. Everything here is a pure function of its
// input: no I/O, no shared state, safe for concurrent use.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharedledger/internal/models"
)

// Entry is one participant's signed balance.
type Entry struct {
	Participant models.Participant
	Amount      decimal.Decimal // Positive = owed money, Negative = owes money
}

// Balances maps participants to signed amounts, remembering the order in
// which participants were first seen. That order drives tie-breaking in
// SimplifyDebts, so it is part of the result, not an implementation detail.
type Balances struct {
	order   []models.Participant
	amounts map[models.Participant]decimal.Decimal
}

func newBalances() *Balances {
	return &Balances{amounts: make(map[models.Participant]decimal.Decimal)}
}

// NewBalances builds Balances from entries, in the given order.
// Repeated participants are summed into their first position.
func NewBalances(entries ...Entry) *Balances {
	b := newBalances()
	for _, e := range entries {
		b.add(e.Participant, e.Amount)
	}
	return b
}

func (b *Balances) add(p models.Participant, delta decimal.Decimal) {
	cur, ok := b.amounts[p]
	if !ok {
		b.order = append(b.order, p)
	}
	b.amounts[p] = cur.Add(delta)
}

// Get returns the balance of p, zero if p never appeared.
func (b *Balances) Get(p models.Participant) decimal.Decimal {
	return b.amounts[p]
}

// Participants returns participants in first-seen order.
func (b *Balances) Participants() []models.Participant {
	return append([]models.Participant(nil), b.order...)
}

// Entries returns all balances in first-seen order.
func (b *Balances) Entries() []Entry {
	out := make([]Entry, len(b.order))
	for i, p := range b.order {
		out[i] = Entry{Participant: p, Amount: b.amounts[p]}
	}
	return out
}

// Map returns a copy of the balances as a plain map.
func (b *Balances) Map() map[models.Participant]decimal.Decimal {
	out := make(map[models.Participant]decimal.Decimal, len(b.amounts))
	for p, a := range b.amounts {
		out[p] = a
	}
	return out
}

// Len returns the number of participants.
func (b *Balances) Len() int {
	return len(b.order)
}

// Sum returns the sum of all balances. Zero, up to division rounding, for
// balances produced by ComputeBalances.
func (b *Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range b.amounts {
		sum = sum.Add(a)
	}
	return sum
}

// Clone returns an independent copy.
func (b *Balances) Clone() *Balances {
	return NewBalances(b.Entries()...)
}

// ComputeBalances returns each participant's net position across expenses.
//
// Algorithm:
//   - share = amount / number of distinct participants
//   - the payer, when participating, gains amount - share
//   - every other participant loses share
//   - a payer outside the participant list gains the full amount
//
// No rounding is applied while accumulating; round for display only.
// All expenses are validated before anything is computed, so an invalid
// expense fails the whole call.
func ComputeBalances(expenses []models.Expense) (*Balances, error) {
	for i := range expenses {
		if err := Validate(&expenses[i]); err != nil {
			return nil, err
		}
	}

	b := newBalances()
	for _, e := range expenses {
		participants := models.UniqueParticipants(e.Participants)
		share := e.Amount.Div(decimal.NewFromInt(int64(len(participants))))

		payerShares := false
		for _, p := range participants {
			if p == e.PaidBy {
				b.add(p, e.Amount.Sub(share))
				payerShares = true
			} else {
				b.add(p, share.Neg())
			}
		}

		// Payer fronted money for others only.
		if !payerShares {
			b.add(e.PaidBy, e.Amount)
		}
	}

	return b, nil
}
