package engine

import "github.com/shopspring/decimal"

// Totals holds the derived financial state for one full transaction set.
type Totals struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Investment decimal.Decimal `json:"investment"`
	Liability  decimal.Decimal `json:"liability"`
	Lend       decimal.Decimal `json:"lend"`

	// NetBalance = Income - Expense - Lend. Lend is an outflow pending
	// repayment, so it reduces the balance.
	NetBalance decimal.Decimal `json:"net_balance"`

	ExpenseByCategory map[string]decimal.Decimal `json:"expense_by_category"`
}

// Aggregate computes totals over the full transaction set. It is a pure
// function: the result depends only on the set of records, not on their
// order, and calling it twice yields identical totals. Records with an
// unknown type contribute nothing.
func Aggregate(records []Record) Totals {
	t := Totals{ExpenseByCategory: make(map[string]decimal.Decimal)}

	for _, r := range records {
		switch r.Type {
		case TypeIncome:
			t.Income = t.Income.Add(r.Amount)
		case TypeExpense:
			t.Expense = t.Expense.Add(r.Amount)
			category := r.Category
			if category == "" {
				category = Uncategorized
			}
			t.ExpenseByCategory[category] = t.ExpenseByCategory[category].Add(r.Amount)
		case TypeInvestment:
			t.Investment = t.Investment.Add(r.Amount)
		case TypeLiability:
			t.Liability = t.Liability.Add(r.Amount)
		case TypeLend:
			t.Lend = t.Lend.Add(r.Amount)
		}
	}

	t.NetBalance = t.Income.Sub(t.Expense).Sub(t.Lend)
	return t
}
