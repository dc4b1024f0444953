package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Limit is the engine's view of a configured budget limit.
type Limit struct {
	ID               string
	Category         string
	Amount           decimal.Decimal
	ThresholdPercent int
}

// ThresholdEvent reports that a category's spend has met or exceeded
// its configured notification threshold.
type ThresholdEvent struct {
	LimitID          string
	Category         string
	ThresholdPercent int
	Percent          decimal.Decimal
	Spent            decimal.Decimal
	Limit            decimal.Decimal
}

// SpentUpdate proposes a new cached currentSpent value for a limit.
// Writing it back is the caller's responsibility.
type SpentUpdate struct {
	LimitID string
	Spent   decimal.Decimal
}

// Evaluation is the result of one evaluation pass.
type Evaluation struct {
	Events  []ThresholdEvent
	Updates []SpentUpdate

	// InvalidLimitIDs lists limits skipped because their amount is not
	// positive. Surfaced as bad configuration, never a failure.
	InvalidLimitIDs []string
}

// Evaluate compares per-category spend against configured limits. It is
// stateless: an event fires on every pass while the condition holds, not
// only on the transition, and the same inputs always produce the same
// events. Suppressing repeats is the dispatcher's job. Events are
// ordered by category, then limit ID.
func Evaluate(limits []Limit, expenseByCategory map[string]decimal.Decimal) Evaluation {
	ordered := make([]Limit, len(limits))
	copy(ordered, limits)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Category != ordered[j].Category {
			return ordered[i].Category < ordered[j].Category
		}
		return ordered[i].ID < ordered[j].ID
	})

	var eval Evaluation
	for _, l := range ordered {
		if !l.Amount.IsPositive() {
			eval.InvalidLimitIDs = append(eval.InvalidLimitIDs, l.ID)
			continue
		}

		spent := expenseByCategory[l.Category]
		eval.Updates = append(eval.Updates, SpentUpdate{LimitID: l.ID, Spent: spent})

		percent := spent.Div(l.Amount).Mul(hundred)
		threshold := decimal.NewFromInt(int64(l.ThresholdPercent))
		if percent.GreaterThanOrEqual(threshold) {
			eval.Events = append(eval.Events, ThresholdEvent{
				LimitID:          l.ID,
				Category:         l.Category,
				ThresholdPercent: l.ThresholdPercent,
				Percent:          percent,
				Spent:            spent,
				Limit:            l.Amount,
			})
		}
	}
	return eval
}
