package engine

import (
	"fmt"
	"time"
)

// NotificationDraft is a notification proposed for persistence. Key is
// the dedup key; the store must reject a second record with the same key.
type NotificationDraft struct {
	Key      string
	Title    string
	Message  string
	Category string
}

// PushRequest is a best-effort push proposed alongside a persisted
// notification. Delivery failure never rolls the record back.
type PushRequest struct {
	Title string
	Body  string
}

// Outcome holds the dispatcher's proposals for one pass.
type Outcome struct {
	ToPersist []NotificationDraft
	ToPush    []PushRequest
}

// DedupKey identifies the same logical alert across passes: one key per
// category per threshold per calendar day.
func DedupKey(category string, thresholdPercent int, day time.Time) string {
	return fmt.Sprintf("%s:%d:%s", category, thresholdPercent, day.Format("2006-01-02"))
}

// Dispatch converts threshold events into notification drafts, dropping
// any event whose dedup key already exists in the persisted log or has
// already been drafted within this pass. The evaluator re-emits events
// on every pass while a category stays over threshold; this is where
// repeats die. Event order is preserved.
func Dispatch(events []ThresholdEvent, existingKeys []string, now time.Time) Outcome {
	seen := make(map[string]bool, len(existingKeys))
	for _, k := range existingKeys {
		seen[k] = true
	}

	var out Outcome
	for _, ev := range events {
		key := DedupKey(ev.Category, ev.ThresholdPercent, now)
		if seen[key] {
			continue
		}
		seen[key] = true

		title := fmt.Sprintf("Budget alert: %s", ev.Category)
		message := fmt.Sprintf("You have used %s%% of your %s budget (%s of %s spent).",
			ev.Percent.Truncate(0).String(), ev.Category,
			ev.Spent.StringFixed(2), ev.Limit.StringFixed(2))

		out.ToPersist = append(out.ToPersist, NotificationDraft{
			Key:      key,
			Title:    title,
			Message:  message,
			Category: ev.Category,
		})
		out.ToPush = append(out.ToPush, PushRequest{Title: title, Body: message})
	}
	return out
}
