package live

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintra/internal/engine"
	"fintra/internal/models"
	"fintra/internal/services"
	"fintra/internal/testutil"
)

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	bus := NewBus()
	budgets := services.NewBudgetLimitService(db, bus)
	notifications := services.NewNotificationService(db)
	return NewStore(budgets, notifications), db
}

func TestStoreAppendNotification(t *testing.T) {
	t.Run("persists_draft", func(t *testing.T) {
		store, db := setupStore(t)
		user := testutil.CreateTestUser(t, db)

		draft := engine.NotificationDraft{
			Key:      "Food:90:2026-03-15",
			Title:    "Budget alert: Food",
			Message:  "You have used 92% of your Food budget (462.50 of 500.00 spent).",
			Category: "Food",
		}
		if err := store.AppendNotification(user.ID, draft); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		var n models.Notification
		if err := db.Where("user_id = ?", user.ID).First(&n).Error; err != nil {
			t.Fatalf("notification not persisted: %v", err)
		}
		if n.DedupKey != draft.Key || n.Title != draft.Title {
			t.Errorf("persisted record does not match draft: %+v", n)
		}
	})

	t.Run("duplicate_key_is_benign", func(t *testing.T) {
		store, db := setupStore(t)
		user := testutil.CreateTestUser(t, db)

		draft := engine.NotificationDraft{Key: "Food:90:2026-03-15", Title: "t", Message: "m", Category: "Food"}
		if err := store.AppendNotification(user.ID, draft); err != nil {
			t.Fatalf("first append failed: %v", err)
		}
		// Losing the dedup race to an earlier session is the invariant
		// holding, not a failure.
		if err := store.AppendNotification(user.ID, draft); err != nil {
			t.Errorf("duplicate append should be swallowed, got %v", err)
		}

		var count int64
		db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected exactly 1 persisted notification, got %d", count)
		}
	})

	t.Run("stamps_last_notified", func(t *testing.T) {
		store, db := setupStore(t)
		user := testutil.CreateTestUser(t, db)
		limit := testutil.CreateTestBudgetLimit(t, db, user.ID, "Food", 50000)

		draft := engine.NotificationDraft{Key: "Food:90:2026-03-15", Title: "t", Message: "m", Category: "Food"}
		if err := store.AppendNotification(user.ID, draft); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		var got models.BudgetLimit
		db.First(&got, "id = ?", limit.ID)
		if got.LastNotifiedAt == nil {
			t.Error("expected LastNotifiedAt to be stamped")
		}
	})
}

func TestStoreUpdateLimitSpent(t *testing.T) {
	store, db := setupStore(t)
	user := testutil.CreateTestUser(t, db)
	limit := testutil.CreateTestBudgetLimit(t, db, user.ID, "Food", 50000)

	if err := store.UpdateLimitSpent(user.ID, limit.ID, decimal.RequireFromString("462.50")); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var got models.BudgetLimit
	db.First(&got, "id = ?", limit.ID)
	if got.CurrentSpent != 46250 {
		t.Errorf("expected current spent 46250 cents, got %d", got.CurrentSpent)
	}
}

func TestStoreNotificationKeys(t *testing.T) {
	store, db := setupStore(t)
	user := testutil.CreateTestUser(t, db)

	draft := engine.NotificationDraft{Key: "Food:90:2026-03-15", Title: "t", Message: "m", Category: "Food"}
	if err := store.AppendNotification(user.ID, draft); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	keys, err := store.NotificationKeys(user.ID, time.Now())
	if err != nil {
		t.Fatalf("keys lookup failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != draft.Key {
		t.Errorf("expected [%s], got %v", draft.Key, keys)
	}
}
