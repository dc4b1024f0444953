package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintra/internal/errors"
	"fintra/internal/models"
	"fintra/internal/pagination"
)

// notificationService is the local notification store: a persisted,
// append-only log with read-state transitions. It deliberately does not
// decide what to append; the dispatcher does, against this log's keys.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Append adds a record to the log. The unique (user, dedup_key) index
// is the only dedup applied here; a violation is returned to the caller
// as gorm.ErrDuplicatedKey.
func (s *notificationService) Append(userID, dedupKey, title, message, category string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:   userID,
		DedupKey: dedupKey,
		Title:    title,
		Message:  message,
		Category: category,
	}

	if err := s.db.Create(notification).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return notification, nil
}

// GetUserNotifications returns the user's notifications newest first.
// UUIDv7 primary keys make ID order creation order.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		base = base.Where("read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("id DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UnreadCount returns the number of unread notifications.
func (s *notificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// MarkRead transitions one notification to read. Read is terminal for
// a record; marking an already-read record is a no-op.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish "already read" from "not found".
		var count int64
		s.db.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", notificationID, userID).Count(&count)
		if count == 0 {
			return apperrors.ErrNotificationNotFound
		}
	}
	return nil
}

// MarkAllRead marks every notification read. A no-op on an empty store.
func (s *notificationService) MarkAllRead(userID string) error {
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ClearAll removes every notification regardless of read state. A
// no-op on an empty store. Hard delete: cleared entries must not block
// future dedup keys.
func (s *notificationService) ClearAll(userID string) error {
	err := s.db.Unscoped().Where("user_id = ?", userID).
		Delete(&models.Notification{}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// KeysForDay returns the dedup keys persisted on the given calendar
// day. Keys embed the day, so older records can never collide anyway.
func (s *notificationService) KeysForDay(userID string, day time.Time) ([]string, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var keys []string
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND created_at >= ?", userID, dayStart).
		Pluck("dedup_key", &keys).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return keys, nil
}
