// Package engine implements the live aggregation and notification core:
// a pure pipeline that turns transaction snapshots into financial totals,
// budget threshold events, and deduplicated notification drafts.
//
// Everything in this package is side-effect free except Engine.Run, which
// drives the pipeline off a snapshot source and hands results to injected
// collaborators. Money values are decimals in major currency units.
package engine

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type names understood by the aggregator.
const (
	TypeIncome     = "income"
	TypeExpense    = "expense"
	TypeInvestment = "investment"
	TypeLiability  = "liability"
	TypeLend       = "lend"
)

// Uncategorized is substituted for a missing or blank category so a
// malformed record still lands in a bucket instead of failing the pass.
const Uncategorized = "Uncategorized"

// Record is one transaction as seen by the aggregator. Records are
// plain values; the engine never mutates or persists them.
type Record struct {
	ID         string
	Type       string
	Category   string
	Amount     decimal.Decimal
	OccurredAt time.Time
}

// RecordFromDocument builds a Record from a loosely-typed document, the
// shape a document store delivers. Malformed fields degrade to safe
// defaults: a non-numeric or negative amount becomes zero, a missing
// category becomes Uncategorized. One bad document must never corrupt
// the totals of the rest.
func RecordFromDocument(doc map[string]any) Record {
	r := Record{
		ID:       stringField(doc, "id"),
		Type:     strings.ToLower(strings.TrimSpace(stringField(doc, "type"))),
		Category: strings.TrimSpace(stringField(doc, "category")),
		Amount:   coerceAmount(doc["amount"]),
	}
	if r.Category == "" {
		r.Category = Uncategorized
	}
	if t, ok := doc["occurredAt"].(time.Time); ok {
		r.OccurredAt = t
	}
	return r
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

// coerceAmount converts any plausible amount representation to a
// non-negative decimal, returning zero for anything unparseable.
func coerceAmount(v any) decimal.Decimal {
	var d decimal.Decimal

	switch n := v.(type) {
	case decimal.Decimal:
		d = n
	case float64:
		d = decimal.NewFromFloat(n)
	case float32:
		d = decimal.NewFromFloat32(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case json.Number:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	default:
		return decimal.Zero
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
