package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintra/internal/errors"
	"fintra/internal/pagination"
	"fintra/internal/services"
)

// BudgetLimitHandler handles budget limit-related requests.
type BudgetLimitHandler struct {
	budgetLimitService services.BudgetLimitServicer
	auditService       services.AuditServicer
}

// NewBudgetLimitHandler creates a new BudgetLimitHandler.
func NewBudgetLimitHandler(budgetLimitService services.BudgetLimitServicer, auditService services.AuditServicer) *BudgetLimitHandler {
	return &BudgetLimitHandler{budgetLimitService: budgetLimitService, auditService: auditService}
}

// CreateBudgetLimitRequest represents the request payload for creating a budget limit.
type CreateBudgetLimitRequest struct {
	Category         string `json:"category" binding:"required,min=1,max=100"`
	LimitAmount      int64  `json:"limit_amount" binding:"required,gt=0"`
	ThresholdPercent int    `json:"threshold_percent" binding:"omitempty,min=1,max=100"`
}

// UpdateBudgetLimitRequest represents the request payload for updating a budget limit.
type UpdateBudgetLimitRequest struct {
	LimitAmount      *int64 `json:"limit_amount" binding:"omitempty,gt=0"`
	ThresholdPercent *int   `json:"threshold_percent" binding:"omitempty,min=1,max=100"`
}

// CreateBudgetLimit handles the creation of a new budget limit.
// @Summary     Create a budget limit
// @Description Set a monthly spending limit for an expense category
// @Tags        budget-limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetLimitRequest true "Budget limit details"
// @Success     201 {object} models.BudgetLimit "Budget limit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Limit already exists for category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-limits [post]
func (h *BudgetLimitHandler) CreateBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	limit, err := h.budgetLimitService.CreateBudgetLimit(userID, req.Category, req.LimitAmount, req.ThresholdPercent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET_LIMIT", "budget_limit", limit.ID, c.ClientIP(),
		map[string]interface{}{"category": req.Category, "limit_amount": req.LimitAmount})

	c.JSON(http.StatusCreated, gin.H{"budget_limit": limit})
}

// GetBudgetLimits handles listing budget limits for the authenticated user.
// @Summary     Get budget limits
// @Description Get all budget limits for the authenticated user
// @Tags        budget-limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetLimit] "Paginated budget limits"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-limits [get]
func (h *BudgetLimitHandler) GetBudgetLimits(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetLimitService.GetUserBudgetLimits(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetLimit handles fetching a single budget limit.
// @Summary     Get a budget limit
// @Description Get a single budget limit by ID
// @Tags        budget-limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget limit ID"
// @Success     200 {object} models.BudgetLimit "Budget limit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-limits/{id} [get]
func (h *BudgetLimitHandler) GetBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := h.budgetLimitService.GetBudgetLimitByID(userID, limitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_limit": limit})
}

// GetBudgetLimitStatus handles fetching the live spend status of a budget limit.
// @Summary     Get budget limit status
// @Description Get the current spend, percentage used, and threshold state for a budget limit
// @Tags        budget-limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget limit ID"
// @Success     200 {object} services.BudgetLimitStatus "Budget limit status"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-limits/{id}/status [get]
func (h *BudgetLimitHandler) GetBudgetLimitStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.budgetLimitService.GetBudgetLimitStatus(userID, limitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// UpdateBudgetLimit handles updating a budget limit.
// @Summary     Update a budget limit
// @Description Update the amount or alert threshold of a budget limit
// @Tags        budget-limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Budget limit ID"
// @Param       request body UpdateBudgetLimitRequest true "Fields to update"
// @Success     200 {object} models.BudgetLimit "Budget limit updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-limits/{id} [put]
func (h *BudgetLimitHandler) UpdateBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	limit, err := h.budgetLimitService.UpdateBudgetLimit(userID, limitID, req.LimitAmount, req.ThresholdPercent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET_LIMIT", "budget_limit", limitID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget_limit": limit})
}

// DeleteBudgetLimit handles deleting a budget limit.
// @Summary     Delete a budget limit
// @Description Delete a budget limit by ID
// @Tags        budget-limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget limit ID"
// @Success     204 "Budget limit deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-limits/{id} [delete]
func (h *BudgetLimitHandler) DeleteBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetLimitService.DeleteBudgetLimit(userID, limitID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET_LIMIT", "budget_limit", limitID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
