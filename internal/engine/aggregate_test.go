package engine

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleRecords() []Record {
	return []Record{
		{ID: "t1", Type: TypeIncome, Category: "Salary", Amount: dec("5000")},
		{ID: "t2", Type: TypeExpense, Category: "Food", Amount: dec("1200.50")},
		{ID: "t3", Type: TypeExpense, Category: "Food", Amount: dec("299.50")},
		{ID: "t4", Type: TypeExpense, Category: "Transport", Amount: dec("500")},
		{ID: "t5", Type: TypeInvestment, Category: "Stocks", Amount: dec("1000")},
		{ID: "t6", Type: TypeLiability, Category: "Credit", Amount: dec("750")},
		{ID: "t7", Type: TypeLend, Category: "Personal", Amount: dec("300")},
	}
}

func TestAggregate(t *testing.T) {
	t.Run("totals_by_type", func(t *testing.T) {
		totals := Aggregate(sampleRecords())

		cases := []struct {
			name string
			got  decimal.Decimal
			want string
		}{
			{"income", totals.Income, "5000"},
			{"expense", totals.Expense, "2000"},
			{"investment", totals.Investment, "1000"},
			{"liability", totals.Liability, "750"},
			{"lend", totals.Lend, "300"},
		}
		for _, c := range cases {
			if !c.got.Equal(dec(c.want)) {
				t.Errorf("%s: expected %s, got %s", c.name, c.want, c.got)
			}
		}
	})

	t.Run("net_balance_subtracts_expense_and_lend", func(t *testing.T) {
		totals := Aggregate(sampleRecords())

		// 5000 - 2000 - 300. Investment and liability do not move the balance.
		if !totals.NetBalance.Equal(dec("2700")) {
			t.Errorf("expected net balance 2700, got %s", totals.NetBalance)
		}
	})

	t.Run("expense_by_category", func(t *testing.T) {
		totals := Aggregate(sampleRecords())

		if !totals.ExpenseByCategory["Food"].Equal(dec("1500")) {
			t.Errorf("expected Food 1500, got %s", totals.ExpenseByCategory["Food"])
		}
		if !totals.ExpenseByCategory["Transport"].Equal(dec("500")) {
			t.Errorf("expected Transport 500, got %s", totals.ExpenseByCategory["Transport"])
		}
		if len(totals.ExpenseByCategory) != 2 {
			t.Errorf("expected 2 expense categories, got %d", len(totals.ExpenseByCategory))
		}
	})

	t.Run("empty_set", func(t *testing.T) {
		totals := Aggregate(nil)

		if !totals.NetBalance.IsZero() {
			t.Errorf("expected zero net balance, got %s", totals.NetBalance)
		}
		if len(totals.ExpenseByCategory) != 0 {
			t.Errorf("expected no expense categories, got %d", len(totals.ExpenseByCategory))
		}
	})

	t.Run("unknown_type_contributes_nothing", func(t *testing.T) {
		totals := Aggregate([]Record{
			{ID: "t1", Type: "transfer", Category: "Misc", Amount: dec("100")},
			{ID: "t2", Type: TypeIncome, Category: "Salary", Amount: dec("50")},
		})

		if !totals.NetBalance.Equal(dec("50")) {
			t.Errorf("expected net balance 50, got %s", totals.NetBalance)
		}
	})

	t.Run("blank_expense_category_goes_to_uncategorized", func(t *testing.T) {
		totals := Aggregate([]Record{
			{ID: "t1", Type: TypeExpense, Category: "", Amount: dec("100")},
		})

		if !totals.ExpenseByCategory[Uncategorized].Equal(dec("100")) {
			t.Errorf("expected Uncategorized bucket 100, got %s", totals.ExpenseByCategory[Uncategorized])
		}
	})

	t.Run("order_independent", func(t *testing.T) {
		records := sampleRecords()
		want := Aggregate(records)

		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 10; i++ {
			shuffled := make([]Record, len(records))
			copy(shuffled, records)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})

			got := Aggregate(shuffled)
			if !got.NetBalance.Equal(want.NetBalance) || !got.Expense.Equal(want.Expense) {
				t.Fatalf("aggregation depends on record order: %v vs %v", got, want)
			}
			for category, amount := range want.ExpenseByCategory {
				if !got.ExpenseByCategory[category].Equal(amount) {
					t.Fatalf("category %s depends on record order", category)
				}
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		records := sampleRecords()
		first := Aggregate(records)
		second := Aggregate(records)

		if !first.NetBalance.Equal(second.NetBalance) || !first.Expense.Equal(second.Expense) {
			t.Error("repeated aggregation of the same records diverged")
		}
	})

	t.Run("category_sums_equal_expense_total", func(t *testing.T) {
		totals := Aggregate(sampleRecords())

		var sum decimal.Decimal
		for _, amount := range totals.ExpenseByCategory {
			sum = sum.Add(amount)
		}
		if !sum.Equal(totals.Expense) {
			t.Errorf("category sums %s do not equal expense total %s", sum, totals.Expense)
		}
	})
}

func TestRecordFromDocument(t *testing.T) {
	t.Run("well_formed", func(t *testing.T) {
		r := RecordFromDocument(map[string]any{
			"id":       "t1",
			"type":     "Expense",
			"category": " Food ",
			"amount":   "123.45",
		})

		if r.Type != TypeExpense {
			t.Errorf("expected type normalized to expense, got %s", r.Type)
		}
		if r.Category != "Food" {
			t.Errorf("expected trimmed category Food, got %q", r.Category)
		}
		if !r.Amount.Equal(dec("123.45")) {
			t.Errorf("expected amount 123.45, got %s", r.Amount)
		}
	})

	t.Run("malformed_amount_becomes_zero", func(t *testing.T) {
		for _, amount := range []any{"not-a-number", nil, true, map[string]any{}} {
			r := RecordFromDocument(map[string]any{"id": "t1", "type": "expense", "amount": amount})
			if !r.Amount.IsZero() {
				t.Errorf("amount %v: expected zero, got %s", amount, r.Amount)
			}
		}
	})

	t.Run("negative_amount_becomes_zero", func(t *testing.T) {
		r := RecordFromDocument(map[string]any{"id": "t1", "type": "expense", "amount": -50.0})
		if !r.Amount.IsZero() {
			t.Errorf("expected zero for negative amount, got %s", r.Amount)
		}
	})

	t.Run("missing_category_becomes_uncategorized", func(t *testing.T) {
		r := RecordFromDocument(map[string]any{"id": "t1", "type": "expense", "amount": 10})
		if r.Category != Uncategorized {
			t.Errorf("expected Uncategorized, got %q", r.Category)
		}
	})

	t.Run("malformed_record_still_aggregates", func(t *testing.T) {
		records := []Record{
			RecordFromDocument(map[string]any{"id": "bad", "type": "expense", "amount": "garbage"}),
			RecordFromDocument(map[string]any{"id": "good", "type": "expense", "category": "Food", "amount": 100}),
		}
		totals := Aggregate(records)

		if !totals.Expense.Equal(dec("100")) {
			t.Errorf("expected expense 100, got %s", totals.Expense)
		}
		if !totals.ExpenseByCategory[Uncategorized].IsZero() {
			t.Errorf("malformed record should contribute zero, got %s", totals.ExpenseByCategory[Uncategorized])
		}
	})
}
