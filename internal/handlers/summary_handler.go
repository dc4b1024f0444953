package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintra/internal/engine"
	"fintra/internal/live"
	"fintra/internal/services"
)

// SummaryHandler serves the aggregated financial summary.
type SummaryHandler struct {
	transactionService services.TransactionServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(transactionService services.TransactionServicer) *SummaryHandler {
	return &SummaryHandler{transactionService: transactionService}
}

// SummaryResponse represents the aggregated totals for a user, in major
// currency units with two decimal places.
type SummaryResponse struct {
	Income            string            `json:"income"`
	Expense           string            `json:"expense"`
	Investment        string            `json:"investment"`
	Liability         string            `json:"liability"`
	Lend              string            `json:"lend"`
	NetBalance        string            `json:"net_balance"`
	ExpenseByCategory map[string]string `json:"expense_by_category"`
}

// GetSummary handles fetching the aggregated totals for the authenticated user.
// @Summary     Get financial summary
// @Description Get per-type totals, net balance, and per-category expense totals over the full transaction history
// @Tags        summary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SummaryResponse "Aggregated totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetAllUserTransactions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals := engine.Aggregate(live.RecordsFromTransactions(transactions))

	resp := SummaryResponse{
		Income:            totals.Income.StringFixed(2),
		Expense:           totals.Expense.StringFixed(2),
		Investment:        totals.Investment.StringFixed(2),
		Liability:         totals.Liability.StringFixed(2),
		Lend:              totals.Lend.StringFixed(2),
		NetBalance:        totals.NetBalance.StringFixed(2),
		ExpenseByCategory: make(map[string]string, len(totals.ExpenseByCategory)),
	}
	for category, amount := range totals.ExpenseByCategory {
		resp.ExpenseByCategory[category] = amount.StringFixed(2)
	}

	c.JSON(http.StatusOK, resp)
}
