package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintra/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction of the given type, category,
// and amount (in cents), dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, category string, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, txType, category, amount, time.Now())
}

// CreateTestTransactionAt creates a transaction with an explicit occurrence time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, category string, amount int64, occurredAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		Type:       txType,
		Category:   category,
		Amount:     amount,
		OccurredAt: occurredAt,
	}
	if txType == models.TransactionTypeLend {
		tx.CounterpartyName = fmt.Sprintf("Counterparty %d", nextID())
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudgetLimit creates a budget limit for the given category with
// the given amount (in cents) and the default 90% alert threshold.
func CreateTestBudgetLimit(t *testing.T, db *gorm.DB, userID, category string, limitAmount int64) *models.BudgetLimit {
	t.Helper()

	limit := &models.BudgetLimit{
		UserID:           userID,
		Category:         category,
		LimitAmount:      limitAmount,
		ThresholdPercent: 90,
	}
	if err := db.Create(limit).Error; err != nil {
		t.Fatalf("failed to create test budget limit: %v", err)
	}
	return limit
}

// CreateTestGoal creates a goal with a deadline one year out.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, targetAmount int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: targetAmount,
		Deadline:     time.Now().AddDate(1, 0, 0),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestNotification creates an unread notification with a unique dedup key.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID, category string) *models.Notification {
	t.Helper()

	n := nextID()
	notification := &models.Notification{
		UserID:   userID,
		DedupKey: fmt.Sprintf("%s:90:2026-01-%02d", category, n%28+1),
		Title:    fmt.Sprintf("Budget alert: %s", category),
		Message:  fmt.Sprintf("Test notification %d", n),
		Category: category,
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}
