package live

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintra/internal/engine"
	"fintra/internal/services"
)

// Store adapts the notification and budget services to the engine's
// persistence writer interface.
type Store struct {
	budgets       services.BudgetLimitServicer
	notifications services.NotificationServicer
}

// NewStore creates the engine's persistence adapter.
func NewStore(budgets services.BudgetLimitServicer, notifications services.NotificationServicer) *Store {
	return &Store{budgets: budgets, notifications: notifications}
}

// NotificationKeys returns the dedup keys persisted for the user on the
// given calendar day.
func (s *Store) NotificationKeys(userID string, day time.Time) ([]string, error) {
	return s.notifications.KeysForDay(userID, day)
}

// AppendNotification persists a notification draft. A concurrent
// session winning the dedup race is not an error: the unique index
// rejected the duplicate, which is exactly the invariant holding.
func (s *Store) AppendNotification(userID string, draft engine.NotificationDraft) error {
	_, err := s.notifications.Append(userID, draft.Key, draft.Title, draft.Message, draft.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	// Informational timestamp only; failure here is not worth failing
	// the append for.
	_ = s.budgets.TouchLastNotified(userID, draft.Category, time.Now())
	return nil
}

// UpdateLimitSpent writes back the cached currentSpent value, converted
// to cents.
func (s *Store) UpdateLimitSpent(userID, limitID string, spent decimal.Decimal) error {
	return s.budgets.SetCurrentSpent(userID, limitID, spent.Shift(2).Round(0).IntPart())
}
