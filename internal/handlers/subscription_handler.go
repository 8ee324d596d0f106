package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "subtrackt/internal/errors"
	"subtrackt/internal/models"
	"subtrackt/internal/pagination"
	"subtrackt/internal/services"
)

// SubscriptionHandler handles subscription-related requests.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// CreateSubscriptionRequest represents the request payload for creating a subscription.
type CreateSubscriptionRequest struct {
	Name         string              `json:"name" binding:"required,min=1,max=100"`
	Amount       float64             `json:"amount" binding:"required,gt=0"`
	BillingCycle models.BillingCycle `json:"billing_cycle" binding:"required,billing_cycle"`
	Category     string              `json:"category" binding:"max=100"`
	StartDate    time.Time           `json:"start_date" binding:"required"`
	EndDate      *time.Time          `json:"end_date"`
	Description  string              `json:"description" binding:"max=500"`
	ReminderDays int                 `json:"reminder_days" binding:"omitempty,min=1,max=30"`
}

// UpdateSubscriptionRequest represents the request payload for updating a subscription.
type UpdateSubscriptionRequest struct {
	Name         string              `json:"name" binding:"omitempty,min=1,max=100"`
	Amount       float64             `json:"amount" binding:"omitempty,gt=0"`
	BillingCycle models.BillingCycle `json:"billing_cycle" binding:"omitempty,billing_cycle"`
	Category     string              `json:"category" binding:"omitempty,max=100"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      *time.Time          `json:"end_date"`
	Description  string              `json:"description" binding:"omitempty,max=500"`
	ReminderDays int                 `json:"reminder_days" binding:"omitempty,min=1,max=30"`
}

// CreateSubscription handles the creation of a new subscription.
// @Summary     Create a subscription
// @Description Create a new subscription and backfill its payment history
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubscriptionRequest true "Subscription details"
// @Success     201 {object} models.Subscription "Subscription created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Free plan limit reached"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(userID, services.SubscriptionInput{
		Name:         req.Name,
		Amount:       req.Amount,
		BillingCycle: req.BillingCycle,
		Category:     req.Category,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Description:  req.Description,
		ReminderDays: req.ReminderDays,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

// GetSubscriptions handles listing subscriptions for the authenticated user.
// @Summary     Get subscriptions
// @Description Get a paginated list of subscriptions ordered by next payment date
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (active/inactive)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Subscription] "Paginated subscriptions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
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

	var status *models.SubscriptionStatus
	if v := c.Query("status"); v != "" {
		s := models.SubscriptionStatus(v)
		if s != models.SubscriptionStatusActive && s != models.SubscriptionStatusInactive {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'active' or 'inactive'"))
			return
		}
		status = &s
	}

	result, err := h.subscriptionService.GetUserSubscriptions(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSubscription handles retrieving a specific subscription.
// @Summary     Get subscription by ID
// @Description Get a specific subscription by ID
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     200 {object} models.Subscription "Subscription details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sub, err := h.subscriptionService.GetSubscriptionByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// UpdateSubscription handles updating a subscription.
// @Summary     Update a subscription
// @Description Update a subscription; schedule changes rebuild the payment history
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Subscription ID"
// @Param       request body UpdateSubscriptionRequest true "Fields to update"
// @Success     200 {object} models.Subscription "Updated subscription"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [put]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.subscriptionService.UpdateSubscription(userID, c.Param("id"), services.SubscriptionInput{
		Name:         req.Name,
		Amount:       req.Amount,
		BillingCycle: req.BillingCycle,
		Category:     req.Category,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Description:  req.Description,
		ReminderDays: req.ReminderDays,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// ToggleSubscription handles flipping a subscription's status.
// @Summary     Toggle subscription status
// @Description Flip a subscription between active and inactive
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     200 {object} models.Subscription "Toggled subscription"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Free plan limit reached"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id}/toggle [post]
func (h *SubscriptionHandler) ToggleSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sub, err := h.subscriptionService.ToggleStatus(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// DeleteSubscription handles deleting a subscription.
// @Summary     Delete a subscription
// @Description Delete a subscription along with its payments and notifications
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     204 "Subscription deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.subscriptionService.DeleteSubscription(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscriptionPayments handles listing a subscription's payment history.
// @Summary     Get subscription payments
// @Description Get the payment history of a subscription, newest first
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Subscription ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Payment] "Paginated payments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id}/payments [get]
func (h *SubscriptionHandler) GetSubscriptionPayments(c *gin.Context) {
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

	result, err := h.subscriptionService.GetSubscriptionPayments(userID, c.Param("id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegeneratePayments handles rebuilding a subscription's payment history.
// @Summary     Regenerate subscription payments
// @Description Discard and rebuild the payment history from the current schedule
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subscription ID"
// @Success     200 {array} models.Payment "Rebuilt payments, oldest first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id}/payments/regenerate [post]
func (h *SubscriptionHandler) RegeneratePayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.subscriptionService.RegeneratePayments(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
