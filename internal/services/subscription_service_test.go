package services

import (
	"testing"
	"time"

	"subtrackt/internal/models"
	"subtrackt/internal/pagination"
	"subtrackt/internal/testutil"
)

// monthlyInput starts 65 days in the past so the backfill always covers the
// start date plus exactly two completed cycles, regardless of month lengths.
func monthlyInput(name string, amount float64) SubscriptionInput {
	return SubscriptionInput{
		Name:         name,
		Amount:       amount,
		BillingCycle: models.BillingCycleMonthly,
		Category:     "Entertainment",
		StartDate:    time.Now().AddDate(0, 0, -65),
	}
}

func TestCreateSubscription(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		sub, err := svc.CreateSubscription(user.ID, monthlyInput("Netflix", 15.49))
		testutil.AssertNoError(t, err)

		if sub.ID == "" {
			t.Fatal("expected non-empty subscription ID")
		}
		if sub.Status != models.SubscriptionStatusActive {
			t.Errorf("expected active status, got %s", sub.Status)
		}
		if sub.ReminderDays != 3 {
			t.Errorf("expected default reminder days 3, got %d", sub.ReminderDays)
		}
		if sub.NextPayment.Before(time.Now().Truncate(24 * time.Hour)) {
			t.Errorf("next payment %v should not be in the past", sub.NextPayment)
		}
	})

	t.Run("backfills_payment_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		sub, err := svc.CreateSubscription(user.ID, monthlyInput("Netflix", 15.49))
		testutil.AssertNoError(t, err)

		var count int64
		if err := db.Model(&models.Payment{}).Where("subscription_id = ?", sub.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count payments: %v", err)
		}
		// The start-date payment plus two completed cycles.
		if count != 3 {
			t.Errorf("expected 3 backfilled payments, got %d", count)
		}
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		input := monthlyInput("Netflix", 0)
		_, err := svc.CreateSubscription(user.ID, input)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		input := monthlyInput("Netflix", 15.49)
		input.BillingCycle = "weekly"
		_, err := svc.CreateSubscription(user.ID, input)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("end_date_before_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		input := monthlyInput("Netflix", 15.49)
		end := input.StartDate.AddDate(0, -1, 0)
		input.EndDate = &end
		_, err := svc.CreateSubscription(user.ID, input)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("free_plan_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < models.FreePlanActiveLimit; i++ {
			testutil.CreateTestSubscription(t, db, user.ID)
		}

		_, err := svc.CreateSubscription(user.ID, monthlyInput("One Too Many", 5))
		testutil.AssertAppError(t, err, "PLAN_LIMIT_REACHED")
	})

	t.Run("paid_plan_unlimited", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)
		if err := db.Model(user).Update("plan", models.PlanPaid).Error; err != nil {
			t.Fatalf("failed to upgrade plan: %v", err)
		}

		for i := 0; i < models.FreePlanActiveLimit; i++ {
			testutil.CreateTestSubscription(t, db, user.ID)
		}

		_, err := svc.CreateSubscription(user.ID, monthlyInput("Sixth", 5))
		testutil.AssertNoError(t, err)
	})

	t.Run("inactive_subs_do_not_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < models.FreePlanActiveLimit; i++ {
			sub := testutil.CreateTestSubscription(t, db, user.ID)
			if i == 0 {
				if err := db.Model(sub).Update("status", models.SubscriptionStatusInactive).Error; err != nil {
					t.Fatalf("failed to deactivate: %v", err)
				}
			}
		}

		_, err := svc.CreateSubscription(user.ID, monthlyInput("Fits", 5))
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserSubscriptions(t *testing.T) {
	t.Run("returns_user_subscriptions_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestSubscription(t, db, user1.ID)
		testutil.CreateTestSubscription(t, db, user1.ID)
		testutil.CreateTestSubscription(t, db, user2.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserSubscriptions(user1.ID, page, nil)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 subscriptions, got %d", result.TotalItems)
		}
	})

	t.Run("filter_by_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestSubscription(t, db, user.ID)
		inactive := testutil.CreateTestSubscription(t, db, user.ID)
		if err := db.Model(inactive).Update("status", models.SubscriptionStatusInactive).Error; err != nil {
			t.Fatalf("failed to deactivate: %v", err)
		}

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		status := models.SubscriptionStatusActive
		result, err := svc.GetUserSubscriptions(user.ID, page, &status)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 active subscription, got %d", result.TotalItems)
		}
	})
}

func TestGetSubscriptionByID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)
		sub := testutil.CreateTestSubscription(t, db, user.ID)

		got, err := svc.GetSubscriptionByID(user.ID, sub.ID)
		testutil.AssertNoError(t, err)
		if got.ID != sub.ID {
			t.Errorf("expected ID %s, got %s", sub.ID, got.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetSubscriptionByID(user.ID, "missing")
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		sub := testutil.CreateTestSubscription(t, db, user2.ID)

		_, err := svc.GetSubscriptionByID(user1.ID, sub.ID)
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})
}

func TestUpdateSubscription(t *testing.T) {
	t.Run("amount_change_keeps_schedule", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)
		sub := testutil.CreateTestSubscription(t, db, user.ID)
		before := sub.NextPayment

		updated, err := svc.UpdateSubscription(user.ID, sub.ID, SubscriptionInput{Amount: 12.99})
		testutil.AssertNoError(t, err)

		if updated.Amount != 12.99 {
			t.Errorf("expected amount 12.99, got %v", updated.Amount)
		}
		if !updated.NextPayment.Equal(before) {
			t.Errorf("next payment should be unchanged, got %v", updated.NextPayment)
		}
	})

	t.Run("cycle_change_recomputes_next_payment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)
		sub := testutil.CreateTestSubscription(t, db, user.ID)

		updated, err := svc.UpdateSubscription(user.ID, sub.ID, SubscriptionInput{BillingCycle: models.BillingCycleYearly})
		testutil.AssertNoError(t, err)

		if updated.BillingCycle != models.BillingCycleYearly {
			t.Errorf("expected yearly, got %s", updated.BillingCycle)
		}
		// Started three months ago, so the next yearly payment is nine months out.
		if updated.NextPayment.Before(time.Now().AddDate(0, 8, 0)) {
			t.Errorf("expected next payment roughly nine months out, got %v", updated.NextPayment)
		}
	})

	t.Run("schedule_change_rebuilds_payments", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		sub, err := svc.CreateSubscription(user.ID, monthlyInput("Netflix", 15.49))
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateSubscription(user.ID, sub.ID, SubscriptionInput{BillingCycle: models.BillingCycleYearly})
		testutil.AssertNoError(t, err)

		var count int64
		if err := db.Model(&models.Payment{}).Where("subscription_id = ?", sub.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count payments: %v", err)
		}
		// Yearly cycle with a recent start: only the start-date payment.
		if count != 1 {
			t.Errorf("expected 1 payment after rebuild, got %d", count)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateSubscription(user.ID, "missing", SubscriptionInput{Name: "X"})
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})
}

func TestToggleStatus(t *testing.T) {
	t.Run("deactivate_then_reactivate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)
		sub := testutil.CreateTestSubscription(t, db, user.ID)

		toggled, err := svc.ToggleStatus(user.ID, sub.ID)
		testutil.AssertNoError(t, err)
		if toggled.Status != models.SubscriptionStatusInactive {
			t.Errorf("expected inactive, got %s", toggled.Status)
		}

		toggled, err = svc.ToggleStatus(user.ID, sub.ID)
		testutil.AssertNoError(t, err)
		if toggled.Status != models.SubscriptionStatusActive {
			t.Errorf("expected active, got %s", toggled.Status)
		}
	})

	t.Run("reactivation_hits_plan_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		parked := testutil.CreateTestSubscription(t, db, user.ID)
		if err := db.Model(parked).Update("status", models.SubscriptionStatusInactive).Error; err != nil {
			t.Fatalf("failed to deactivate: %v", err)
		}
		for i := 0; i < models.FreePlanActiveLimit; i++ {
			testutil.CreateTestSubscription(t, db, user.ID)
		}

		_, err := svc.ToggleStatus(user.ID, parked.ID)
		testutil.AssertAppError(t, err, "PLAN_LIMIT_REACHED")
	})
}

func TestDeleteSubscription(t *testing.T) {
	t.Run("cascades_payments_and_notifications", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		sub, err := svc.CreateSubscription(user.ID, monthlyInput("Netflix", 15.49))
		testutil.AssertNoError(t, err)

		reminder := &models.Notification{
			ID:        "payment-" + sub.ID + "-2",
			UserID:    user.ID,
			Type:      models.NotificationTypePayment,
			Title:     "Upcoming Payment",
			Message:   "Netflix due in 2 days",
			RelatedID: sub.ID,
		}
		if err := db.Create(reminder).Error; err != nil {
			t.Fatalf("failed to create notification: %v", err)
		}

		testutil.AssertNoError(t, svc.DeleteSubscription(user.ID, sub.ID))

		var payments int64
		if err := db.Model(&models.Payment{}).Where("subscription_id = ?", sub.ID).Count(&payments).Error; err != nil {
			t.Fatalf("failed to count payments: %v", err)
		}
		if payments != 0 {
			t.Errorf("expected payments deleted, got %d", payments)
		}

		var notifications int64
		if err := db.Model(&models.Notification{}).Where("related_id = ?", sub.ID).Count(&notifications).Error; err != nil {
			t.Fatalf("failed to count notifications: %v", err)
		}
		if notifications != 0 {
			t.Errorf("expected notifications deleted, got %d", notifications)
		}

		_, err = svc.GetSubscriptionByID(user.ID, sub.ID)
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		sub := testutil.CreateTestSubscription(t, db, user2.ID)

		err := svc.DeleteSubscription(user1.ID, sub.ID)
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})
}

func TestGetSubscriptionPayments(t *testing.T) {
	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		sub, err := svc.CreateSubscription(user.ID, monthlyInput("Netflix", 15.49))
		testutil.AssertNoError(t, err)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetSubscriptionPayments(user.ID, sub.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 payments, got %d", result.TotalItems)
		}
		for i := 1; i < len(result.Data); i++ {
			if result.Data[i].Date.After(result.Data[i-1].Date) {
				t.Errorf("payments not ordered newest first at index %d", i)
			}
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		_, err := svc.GetSubscriptionPayments(user.ID, "missing", page)
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})
}

func TestRegeneratePayments(t *testing.T) {
	t.Run("rebuilds_history_from_schedule", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		sub, err := svc.CreateSubscription(user.ID, monthlyInput("Netflix", 15.49))
		testutil.AssertNoError(t, err)

		// Corrupt the history, then regenerate.
		if err := db.Unscoped().Where("subscription_id = ?", sub.ID).Delete(&models.Payment{}).Error; err != nil {
			t.Fatalf("failed to clear payments: %v", err)
		}

		payments, err := svc.RegeneratePayments(user.ID, sub.ID)
		testutil.AssertNoError(t, err)

		if len(payments) != 3 {
			t.Fatalf("expected 3 rebuilt payments, got %d", len(payments))
		}
		for i := 1; i < len(payments); i++ {
			if payments[i].Date.Before(payments[i-1].Date) {
				t.Errorf("payments not ordered oldest first at index %d", i)
			}
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.RegeneratePayments(user.ID, "missing")
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})
}
