package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"subtrackt/internal/billing"
	apperrors "subtrackt/internal/errors"
	"subtrackt/internal/models"
	"subtrackt/internal/pagination"
)

// subscriptionService handles subscription-related business logic.
type subscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB) SubscriptionServicer {
	return &subscriptionService{db: db}
}

// CreateSubscription creates a subscription, derives its next payment date,
// and backfills its payment history. Free-plan users are capped by a live
// count of their active subscriptions.
func (s *subscriptionService) CreateSubscription(userID string, input SubscriptionInput) (*models.Subscription, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "subscription name is required")
	}
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if !validCycle(input.BillingCycle) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "billing cycle must be monthly, quarterly or yearly")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not precede start date")
	}

	if err := s.checkPlanLimit(userID); err != nil {
		return nil, err
	}

	now := time.Now()
	reminderDays := input.ReminderDays
	if reminderDays <= 0 {
		reminderDays = 3
	}

	sub := &models.Subscription{
		UserID:       userID,
		Name:         input.Name,
		Amount:       input.Amount,
		BillingCycle: input.BillingCycle,
		Category:     input.Category,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Description:  input.Description,
		ReminderDays: reminderDays,
		Status:       models.SubscriptionStatusActive,
		NextPayment:  billing.NextPaymentDate(input.StartDate, input.BillingCycle, now),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		return createPaymentHistory(tx, sub, now)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return sub, nil
}

// GetUserSubscriptions retrieves a paginated list of subscriptions for a
// user, optionally filtered by status.
func (s *subscriptionService) GetUserSubscriptions(userID string, page pagination.PageRequest, status *models.SubscriptionStatus) (*pagination.PageResponse[models.Subscription], error) {
	page.Defaults()

	base := s.db.Model(&models.Subscription{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var subs []models.Subscription
	if err := base.Order("next_payment asc").Scopes(pagination.Paginate(page)).Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(subs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSubscriptionByID retrieves a subscription by ID for a specific user.
func (s *subscriptionService) GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// UpdateSubscription applies the input to an existing subscription. When the
// start date or billing cycle changes, the next payment date and the payment
// history are rebuilt from the new schedule.
func (s *subscriptionService) UpdateSubscription(userID, subscriptionID string, input SubscriptionInput) (*models.Subscription, error) {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if input.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if input.BillingCycle != "" && !validCycle(input.BillingCycle) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "billing cycle must be monthly, quarterly or yearly")
	}

	now := time.Now()
	scheduleChanged := false

	updates := make(map[string]interface{})
	if input.Name != "" {
		updates["name"] = input.Name
		sub.Name = input.Name
	}
	if input.Amount > 0 {
		updates["amount"] = input.Amount
		sub.Amount = input.Amount
	}
	if input.BillingCycle != "" && input.BillingCycle != sub.BillingCycle {
		updates["billing_cycle"] = input.BillingCycle
		sub.BillingCycle = input.BillingCycle
		scheduleChanged = true
	}
	if input.Category != "" {
		updates["category"] = input.Category
		sub.Category = input.Category
	}
	if !input.StartDate.IsZero() && !input.StartDate.Equal(sub.StartDate) {
		updates["start_date"] = input.StartDate
		sub.StartDate = input.StartDate
		scheduleChanged = true
	}
	if input.EndDate != nil {
		updates["end_date"] = input.EndDate
		sub.EndDate = input.EndDate
	}
	if input.Description != "" {
		updates["description"] = input.Description
		sub.Description = input.Description
	}
	if input.ReminderDays > 0 {
		updates["reminder_days"] = input.ReminderDays
		sub.ReminderDays = input.ReminderDays
	}

	if scheduleChanged {
		sub.NextPayment = billing.NextPaymentDate(sub.StartDate, sub.BillingCycle, now)
		updates["next_payment"] = sub.NextPayment
	}

	if len(updates) == 0 {
		return sub, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(sub).Updates(updates).Error; err != nil {
			return err
		}
		if !scheduleChanged {
			return nil
		}
		if err := tx.Unscoped().Where("subscription_id = ?", sub.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return createPaymentHistory(tx, sub, now)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return sub, nil
}

// ToggleStatus flips a subscription between active and inactive. Reactivating
// counts against the free-plan limit the same way creation does.
func (s *subscriptionService) ToggleStatus(userID, subscriptionID string) (*models.Subscription, error) {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	next := models.SubscriptionStatusActive
	if sub.Status == models.SubscriptionStatusActive {
		next = models.SubscriptionStatusInactive
	}

	if next == models.SubscriptionStatusActive {
		if err := s.checkPlanLimit(userID); err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(sub).Update("status", next).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sub.Status = next
	return sub, nil
}

// DeleteSubscription removes a subscription along with its payment history
// and any notifications that reference it.
func (s *subscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("subscription_id = ?", sub.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_id = ?", sub.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(sub).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSubscriptionPayments retrieves the payment history of a subscription,
// newest first.
func (s *subscriptionService) GetSubscriptionPayments(userID, subscriptionID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error) {
	if _, err := s.GetSubscriptionByID(userID, subscriptionID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Payment{}).Where("subscription_id = ?", subscriptionID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.Payment
	if err := base.Order("date desc").Scopes(pagination.Paginate(page)).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(payments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RegeneratePayments discards a subscription's payment history and rebuilds
// it from the current schedule. Returns the rebuilt rows, oldest first.
func (s *subscriptionService) RegeneratePayments(userID, subscriptionID string) ([]models.Payment, error) {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("subscription_id = ?", sub.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return createPaymentHistory(tx, sub, now)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.Payment
	if err := s.db.Where("subscription_id = ?", sub.ID).Order("date asc").Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payments, nil
}

// checkPlanLimit recounts the user's active subscriptions and rejects the
// operation when a free-plan user is already at the cap.
func (s *subscriptionService) checkPlanLimit(userID string) error {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.Plan != models.PlanFree {
		return nil
	}

	var active int64
	if err := s.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Count(&active).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if active >= models.FreePlanActiveLimit {
		return apperrors.ErrPlanLimitReached
	}
	return nil
}

func validCycle(cycle models.BillingCycle) bool {
	switch cycle {
	case models.BillingCycleMonthly, models.BillingCycleQuarterly, models.BillingCycleYearly:
		return true
	}
	return false
}

// createPaymentHistory writes one paid payment row per completed billing
// period between the start date and now.
func createPaymentHistory(tx *gorm.DB, sub *models.Subscription, now time.Time) error {
	months := billing.CycleMonths(sub.BillingCycle)
	if months == 0 {
		return nil
	}

	var payments []models.Payment
	for d := sub.StartDate; !d.After(now); d = d.AddDate(0, months, 0) {
		if sub.EndDate != nil && d.After(*sub.EndDate) {
			break
		}
		payments = append(payments, models.Payment{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Amount:         sub.Amount,
			Date:           d,
			Status:         models.PaymentStatusPaid,
		})
	}
	if len(payments) == 0 {
		return nil
	}
	return tx.Create(&payments).Error
}
