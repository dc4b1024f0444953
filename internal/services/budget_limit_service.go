package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintra/internal/errors"
	"fintra/internal/models"
	"fintra/internal/pagination"
)

// budgetLimitService handles budget limit business logic.
type budgetLimitService struct {
	db      *gorm.DB
	changes ChangePublisher
}

// NewBudgetLimitService creates a new BudgetLimitServicer.
func NewBudgetLimitService(db *gorm.DB, changes ChangePublisher) BudgetLimitServicer {
	return &budgetLimitService{db: db, changes: changes}
}

// CreateBudgetLimit creates a budget limit for a category. One limit
// per (user, category).
func (s *budgetLimitService) CreateBudgetLimit(userID, category string, limitAmount int64, thresholdPercent int) (*models.BudgetLimit, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if limitAmount <= 0 {
		return nil, apperrors.ErrInvalidBudgetLimit
	}
	if thresholdPercent < 1 || thresholdPercent > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "threshold percent must be between 1 and 100")
	}

	var count int64
	s.db.Model(&models.BudgetLimit{}).
		Where("user_id = ? AND category = ?", userID, category).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudgetLimit
	}

	limit := &models.BudgetLimit{
		UserID:           userID,
		Category:         category,
		LimitAmount:      limitAmount,
		ThresholdPercent: thresholdPercent,
	}

	if err := s.db.Create(limit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateBudgetLimit
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.changes.Publish(userID)
	return limit, nil
}

// GetUserBudgetLimits returns a paginated list of the user's budget limits.
func (s *budgetLimitService) GetUserBudgetLimits(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetLimit], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetLimit{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var limits []models.BudgetLimit
	if err := base.Order("category").Scopes(pagination.Paginate(page)).Find(&limits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(limits, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetLimitByID returns a budget limit by ID if it belongs to the user.
func (s *budgetLimitService) GetBudgetLimitByID(userID, limitID string) (*models.BudgetLimit, error) {
	var limit models.BudgetLimit
	if err := s.db.Where("id = ? AND user_id = ?", limitID, userID).First(&limit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetLimitNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &limit, nil
}

// UpdateBudgetLimit updates a limit's amount and/or threshold.
func (s *budgetLimitService) UpdateBudgetLimit(userID, limitID string, limitAmount *int64, thresholdPercent *int) (*models.BudgetLimit, error) {
	limit, err := s.GetBudgetLimitByID(userID, limitID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if limitAmount != nil {
		if *limitAmount <= 0 {
			return nil, apperrors.ErrInvalidBudgetLimit
		}
		updates["limit_amount"] = *limitAmount
	}
	if thresholdPercent != nil {
		if *thresholdPercent < 1 || *thresholdPercent > 100 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "threshold percent must be between 1 and 100")
		}
		updates["threshold_percent"] = *thresholdPercent
	}

	if len(updates) > 0 {
		if err := s.db.Model(limit).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.changes.Publish(userID)
	}

	return limit, nil
}

// DeleteBudgetLimit soft-deletes a budget limit.
func (s *budgetLimitService) DeleteBudgetLimit(userID, limitID string) error {
	limit, err := s.GetBudgetLimitByID(userID, limitID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(limit).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.changes.Publish(userID)
	return nil
}

// GetBudgetLimitStatus reports live spend against the limit, summed
// from the authoritative transaction rows rather than the cached
// current_spent column.
func (s *budgetLimitService) GetBudgetLimitStatus(userID, limitID string) (*BudgetLimitStatus, error) {
	limit, err := s.GetBudgetLimitByID(userID, limitID)
	if err != nil {
		return nil, err
	}

	var spent int64
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category = ? AND type = ?",
			userID, limit.Category, models.TransactionTypeExpense).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	status := &BudgetLimitStatus{
		LimitID:          limit.ID,
		Category:         limit.Category,
		LimitAmount:      limit.LimitAmount,
		Spent:            spent,
		ThresholdPercent: limit.ThresholdPercent,
	}
	if limit.LimitAmount > 0 {
		status.Percent = float64(spent) / float64(limit.LimitAmount) * 100
	} else {
		status.Invalid = true
	}

	return status, nil
}

// SetCurrentSpent writes back the engine's cached spend value. Only
// rows where the value actually changed are touched.
func (s *budgetLimitService) SetCurrentSpent(userID, limitID string, spent int64) error {
	err := s.db.Model(&models.BudgetLimit{}).
		Where("id = ? AND user_id = ? AND current_spent <> ?", limitID, userID, spent).
		Update("current_spent", spent).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TouchLastNotified stamps the limit for a category after a
// notification for it was persisted. Informational only.
func (s *budgetLimitService) TouchLastNotified(userID, category string, at time.Time) error {
	err := s.db.Model(&models.BudgetLimit{}).
		Where("user_id = ? AND category = ?", userID, category).
		Update("last_notified_at", at).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
