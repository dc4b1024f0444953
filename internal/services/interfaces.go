package services

import (
	"time"

	"fintra/internal/models"
	"fintra/internal/pagination"
)

// ChangePublisher receives a signal after every mutating write to a
// user's transactions or budget limits, driving the live aggregation
// engine. The live package's Bus satisfies it.
type ChangePublisher interface {
	Publish(userID string)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName, currency string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	MinAmount *int64
	MaxAmount *int64
}

// TransactionServicer defines the contract for transaction-related
// business logic. Transactions are immutable: there is no update, only
// create and delete.
type TransactionServicer interface {
	CreateTransaction(userID string, txType models.TransactionType, category string, amount int64, occurredAt time.Time, note, counterpartyName string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAllUserTransactions(userID string) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetLimitStatus reports live spend against one budget limit.
type BudgetLimitStatus struct {
	LimitID          string  `json:"limit_id"`
	Category         string  `json:"category"`
	LimitAmount      int64   `json:"limit_amount"`
	Spent            int64   `json:"spent"`
	Percent          float64 `json:"percent"`
	ThresholdPercent int     `json:"threshold_percent"`

	// Invalid marks a limit whose amount is not positive; such limits
	// are excluded from evaluation and surfaced as bad configuration.
	Invalid bool `json:"invalid"`
}

// BudgetLimitServicer defines the contract for budget limit business logic.
type BudgetLimitServicer interface {
	CreateBudgetLimit(userID, category string, limitAmount int64, thresholdPercent int) (*models.BudgetLimit, error)
	GetUserBudgetLimits(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetLimit], error)
	GetBudgetLimitByID(userID, limitID string) (*models.BudgetLimit, error)
	UpdateBudgetLimit(userID, limitID string, limitAmount *int64, thresholdPercent *int) (*models.BudgetLimit, error)
	DeleteBudgetLimit(userID, limitID string) error
	GetBudgetLimitStatus(userID, limitID string) (*BudgetLimitStatus, error)

	// Engine write-back surface.
	SetCurrentSpent(userID, limitID string, spent int64) error
	TouchLastNotified(userID, category string, at time.Time) error
}

// GoalServicer defines the contract for savings goal business logic.
type GoalServicer interface {
	CreateGoal(userID, name string, targetAmount int64, deadline time.Time, category, note string) (*models.Goal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID, name string, targetAmount *int64, deadline *time.Time, category, note *string) (*models.Goal, error)
	Contribute(userID, goalID string, amount int64) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
}

// NotificationServicer is the local notification store: an append-only
// log with read-state transitions. Append performs no dedup beyond the
// store's unique key; deciding what to append is the dispatcher's job.
type NotificationServicer interface {
	Append(userID, dedupKey, title, message, category string) (*models.Notification, error)
	GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	ClearAll(userID string) error
	KeysForDay(userID string, day time.Time) ([]string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
