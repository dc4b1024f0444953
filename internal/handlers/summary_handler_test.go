package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintra/internal/errors"
	"fintra/internal/models"
)

func setupSummaryRouter(handler *SummaryHandler) *gin.Engine {
	r := gin.New()
	r.GET("/summary", injectUserID(testUserID), handler.GetSummary)
	return r
}

func TestSummaryHandler_GetSummary(t *testing.T) {
	t.Run("returns aggregated totals", func(t *testing.T) {
		now := time.Now()
		txSvc := &mockTransactionService{
			getAllUserTransactionsFn: func(_ string) ([]models.Transaction, error) {
				return []models.Transaction{
					{Type: models.TransactionTypeIncome, Category: "Salary", Amount: 500000, OccurredAt: now},
					{Type: models.TransactionTypeExpense, Category: "Food", Amount: 120050, OccurredAt: now},
					{Type: models.TransactionTypeExpense, Category: "Transport", Amount: 50000, OccurredAt: now},
					{Type: models.TransactionTypeLend, Category: "Personal", Amount: 30000, CounterpartyName: "Alice", OccurredAt: now},
				}, nil
			},
		}
		handler := NewSummaryHandler(txSvc)
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["income"] != "5000.00" {
			t.Errorf("expected income 5000.00, got %v", result["income"])
		}
		if result["expense"] != "1700.50" {
			t.Errorf("expected expense 1700.50, got %v", result["expense"])
		}
		if result["lend"] != "300.00" {
			t.Errorf("expected lend 300.00, got %v", result["lend"])
		}
		// 5000 - 1700.50 - 300
		if result["net_balance"] != "2999.50" {
			t.Errorf("expected net_balance 2999.50, got %v", result["net_balance"])
		}
		byCategory := result["expense_by_category"].(map[string]interface{})
		if byCategory["Food"] != "1200.50" {
			t.Errorf("expected Food 1200.50, got %v", byCategory["Food"])
		}
		if byCategory["Transport"] != "500.00" {
			t.Errorf("expected Transport 500.00, got %v", byCategory["Transport"])
		}
	})

	t.Run("returns zero totals with no transactions", func(t *testing.T) {
		handler := NewSummaryHandler(&mockTransactionService{})
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["income"] != "0.00" {
			t.Errorf("expected income 0.00, got %v", result["income"])
		}
		if result["net_balance"] != "0.00" {
			t.Errorf("expected net_balance 0.00, got %v", result["net_balance"])
		}
		byCategory := result["expense_by_category"].(map[string]interface{})
		if len(byCategory) != 0 {
			t.Errorf("expected empty expense_by_category, got %v", byCategory)
		}
	})

	t.Run("returns 500 when loading transactions fails", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getAllUserTransactionsFn: func(_ string) ([]models.Transaction, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		handler := NewSummaryHandler(txSvc)
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/summary", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewSummaryHandler(&mockTransactionService{})
		r := gin.New()
		r.GET("/summary", handler.GetSummary)

		rec := doRequest(r, "GET", "/summary", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
