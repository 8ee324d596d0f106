package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "subtrackt/internal/errors"
	"subtrackt/internal/services"
)

// BudgetHandler handles per-period budget requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpsertBudgetRequest represents the request payload for setting a period budget.
// Month and year default to the current period when omitted.
type UpsertBudgetRequest struct {
	CategoryID string  `json:"category_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"gte=0"`
	Month      int     `json:"month" binding:"omitempty,min=1,max=12"`
	Year       int     `json:"year" binding:"omitempty,min=2000,max=2200"`
}

// UpsertBudget handles creating or overwriting a period budget record.
// @Summary     Set a period budget
// @Description Create or overwrite the budget record for a category and month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget record"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [put]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	now := time.Now()
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}

	budget, err := h.budgetService.UpsertBudget(userID, req.CategoryID, req.Amount, req.Month, req.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgets handles listing the current period's budget records.
// @Summary     Get period budgets
// @Description Get the budget records for a month (defaults to the current month)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12, default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {array} models.Budget "Budget records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query struct {
		Month int `form:"month" binding:"omitempty,min=1,max=12"`
		Year  int `form:"year" binding:"omitempty,min=2000,max=2200"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	now := time.Now()
	if query.Month == 0 {
		query.Month = int(now.Month())
	}
	if query.Year == 0 {
		query.Year = now.Year()
	}

	budgets, err := h.budgetService.GetPeriodBudgets(userID, query.Month, query.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}
