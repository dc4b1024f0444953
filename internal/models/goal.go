package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal represents a savings goal tracked outside the aggregation engine.
type Goal struct {
	Base
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string    `gorm:"not null" json:"name"`
	TargetAmount  int64     `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64     `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Deadline      time.Time `gorm:"not null" json:"deadline"`
	Category      string    `json:"category"`
	Note          string    `json:"note,omitempty"`

	// Computed from current/target on every load, never persisted.
	ProgressPercent float64 `gorm:"-" json:"progress_percent"`
}

// AfterFind computes the progress percentage for loaded goals.
func (g *Goal) AfterFind(tx *gorm.DB) error {
	g.computeProgress()
	return nil
}

// AfterCreate keeps freshly created goals consistent with loaded ones.
func (g *Goal) AfterCreate(tx *gorm.DB) error {
	g.computeProgress()
	return nil
}

func (g *Goal) computeProgress() {
	if g.TargetAmount > 0 {
		g.ProgressPercent = float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
	}
}
