package models

// Notification is one entry in a user's persisted notification log.
// DedupKey identifies the same logical alert across recompute passes;
// the unique index makes at-most-once delivery hold even across racing
// sessions.
type Notification struct {
	Base
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_user_dedup" json:"user_id"`
	DedupKey string `gorm:"not null;uniqueIndex:idx_notifications_user_dedup" json:"-"`
	Title    string `gorm:"not null" json:"title"`
	Message  string `gorm:"not null" json:"message"`
	Category string `json:"category,omitempty"`
	Read     bool   `gorm:"not null;default:false" json:"read"`
}
