package models

import "time"

// BudgetLimit caps spend for one expense category. CurrentSpent is a
// cached value written back by the aggregation engine; the
// authoritative figure is always the live sum over expense transactions
// in the category.
type BudgetLimit struct {
	Base
	UserID           string `gorm:"type:uuid;not null;uniqueIndex:idx_budget_limits_user_category" json:"user_id"`
	Category         string `gorm:"not null;uniqueIndex:idx_budget_limits_user_category" json:"category"`
	LimitAmount      int64  `gorm:"type:bigint;not null" json:"limit_amount"`
	ThresholdPercent int    `gorm:"not null;default:90" json:"threshold_percent"`
	CurrentSpent     int64  `gorm:"type:bigint;not null;default:0" json:"current_spent"`

	// Informational only; dedup reads the notification log, never this.
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
}
