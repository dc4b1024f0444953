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

// transactionService handles transaction-related business logic.
type transactionService struct {
	db      *gorm.DB
	changes ChangePublisher
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, changes ChangePublisher) TransactionServicer {
	return &transactionService{db: db, changes: changes}
}

// CreateTransaction records a new transaction for a user. Transactions
// are immutable once created; editing is modeled as delete + recreate.
func (s *transactionService) CreateTransaction(
	userID string,
	txType models.TransactionType,
	category string,
	amount int64,
	occurredAt time.Time,
	note, counterpartyName string,
) (*models.Transaction, error) {
	switch txType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense,
		models.TransactionTypeInvestment, models.TransactionTypeLiability,
		models.TransactionTypeLend:
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	if txType == models.TransactionTypeLend && strings.TrimSpace(counterpartyName) == "" {
		return nil, apperrors.ErrCounterpartyRequired
	}
	if txType != models.TransactionTypeLend {
		counterpartyName = ""
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	transaction := &models.Transaction{
		UserID:           userID,
		Type:             txType,
		Category:         category,
		Amount:           amount,
		OccurredAt:       occurredAt,
		Note:             note,
		CounterpartyName: strings.TrimSpace(counterpartyName),
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.changes.Publish(userID)
	return transaction, nil
}

// GetUserTransactions returns a paginated, filtered list of the user's
// transactions, newest occurrence first.
func (s *transactionService) GetUserTransactions(
	userID string,
	page pagination.PageRequest,
	filter TransactionFilter,
) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("occurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("occurred_at <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.MinAmount != nil {
		base = base.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		base = base.Where("amount <= ?", *filter.MaxAmount)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("occurred_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllUserTransactions returns the user's full transaction set,
// ordered by occurrence time. Used by the summary aggregation.
func (s *transactionService) GetAllUserTransactions(userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("occurred_at, id").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.changes.Publish(userID)
	return nil
}
