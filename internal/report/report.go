// Package report aggregates expenses for display: totals, categories, what
// each participant fronted, and per-day averages over a date range.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmynk/sharedledger/internal/models"
)

// Category is a coarse expense classification derived from the description.
type Category string

const (
	CategoryFood        Category = "food"
	CategoryRestaurants Category = "restaurants"
	CategoryTransport   Category = "transport"
	CategoryOther       Category = "other"
)

// rules are checked in order; the first keyword hit wins.
var rules = []struct {
	category Category
	keywords []string
}{
	{CategoryFood, []string{"super", "mercado", "comida"}},
	{CategoryRestaurants, []string{"restaurante", "cena", "café"}},
	{CategoryTransport, []string{"uber", "taxi", "transporte"}},
}

// Categorize classifies an expense by keywords in its description.
func Categorize(description string) Category {
	desc := cases.Fold().String(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(desc, cases.Fold().String(kw)) {
				return r.category
			}
		}
	}
	return CategoryOther
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category Category
	Amount   decimal.Decimal
	Percent  decimal.Decimal // Share of the period total, 0-100
}

// ParticipantTotal is the amount a participant fronted.
type ParticipantTotal struct {
	Participant models.Participant
	Paid        decimal.Decimal
}

// Summary describes the expenses in a period.
type Summary struct {
	From, To      time.Time // Zero means open-ended
	Count         int
	Total         decimal.Decimal
	AveragePerDay decimal.Decimal
	// AveragePerPerson divides Total by the number of distinct people
	// involved as payer or participant (at least one).
	AveragePerPerson decimal.Decimal
	ByCategory       []CategoryTotal    // Largest first
	PaidBy           []ParticipantTotal // First-seen order
}

// InRange reports whether t falls within [from, to]. A zero bound is open.
func InRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

// Summarize aggregates the expenses dated within [from, to].
//
// AveragePerDay uses the number of calendar days spanned by the range; for
// an open range it uses the span between the earliest and latest expense.
func Summarize(expenses []models.Expense, from, to time.Time) Summary {
	s := Summary{From: from, To: to, Total: decimal.Zero}

	byCategory := make(map[Category]decimal.Decimal)
	paid := make(map[models.Participant]decimal.Decimal)
	var payers []models.Participant
	people := make(map[models.Participant]bool)
	var first, last time.Time

	for _, e := range expenses {
		if !InRange(e.Date, from, to) {
			continue
		}
		s.Count++
		s.Total = s.Total.Add(e.Amount)

		cat := Categorize(e.Description)
		byCategory[cat] = byCategory[cat].Add(e.Amount)

		if _, ok := paid[e.PaidBy]; !ok {
			payers = append(payers, e.PaidBy)
		}
		paid[e.PaidBy] = paid[e.PaidBy].Add(e.Amount)

		people[e.PaidBy] = true
		for _, p := range e.Participants {
			people[p] = true
		}

		if first.IsZero() || e.Date.Before(first) {
			first = e.Date
		}
		if last.IsZero() || e.Date.After(last) {
			last = e.Date
		}
	}

	for cat, amount := range byCategory {
		ct := CategoryTotal{Category: cat, Amount: amount, Percent: decimal.Zero}
		if s.Total.IsPositive() {
			ct.Percent = amount.Div(s.Total).Mul(decimal.NewFromInt(100))
		}
		s.ByCategory = append(s.ByCategory, ct)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})

	for _, p := range payers {
		s.PaidBy = append(s.PaidBy, ParticipantTotal{Participant: p, Paid: paid[p]})
	}

	s.AveragePerPerson = s.Total.Div(decimal.NewFromInt(int64(max(1, len(people)))))

	start, end := from, to
	if start.IsZero() {
		start = first
	}
	if end.IsZero() {
		end = last
	}
	s.AveragePerDay = decimal.Zero
	if s.Count > 0 {
		s.AveragePerDay = s.Total.Div(decimal.NewFromInt(int64(daysSpanned(start, end))))
	}

	return s
}

// daysSpanned counts calendar days from start to end inclusive, at least one.
func daysSpanned(start, end time.Time) int {
	if end.Before(start) {
		return 1
	}
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.In(start.Location()).Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	// Unix seconds rather than b.Sub(a), which saturates past ~292 years.
	return int((b.Unix()-a.Unix())/(24*60*60)) + 1
}

// Receipts returns the expenses that carry a receipt reference, in input order.
func Receipts(expenses []models.Expense) []models.Expense {
	var out []models.Expense
	for _, e := range expenses {
		if e.HasReceipt() {
			out = append(out, e)
		}
	}
	return out
}

// DisplayName formats a category for people, e.g. "Restaurants".
func (c Category) DisplayName() string {
	return cases.Title(language.English).String(string(c))
}
