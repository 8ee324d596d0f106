package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"subtrackt/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a free-plan user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Plan:     models.PlanFree,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSubscription creates an active monthly subscription that started
// three months ago.
func CreateTestSubscription(t *testing.T, db *gorm.DB, userID string) *models.Subscription {
	t.Helper()
	return CreateTestSubscriptionWithAmount(t, db, userID, 9.99)
}

// CreateTestSubscriptionWithAmount creates an active monthly subscription
// with the given amount.
func CreateTestSubscriptionWithAmount(t *testing.T, db *gorm.DB, userID string, amount float64) *models.Subscription {
	t.Helper()

	now := time.Now()
	sub := &models.Subscription{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Subscription %d", nextID()),
		Amount:       amount,
		BillingCycle: models.BillingCycleMonthly,
		Category:     "Entertainment",
		StartDate:    now.AddDate(0, -3, 0),
		ReminderDays: 3,
		Status:       models.SubscriptionStatusActive,
		NextPayment:  now.AddDate(0, 1, 0),
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}

// CreateTestCategory creates a category with the given monthly budget.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, budget float64) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Budget: budget,
		Color:  "#4287f5",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget creates a budget record for the current month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, amount float64) *models.Budget {
	t.Helper()

	now := time.Now()
	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Month:      int(now.Month()),
		Year:       now.Year(),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestNotification creates an unread payment notification.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string) *models.Notification {
	t.Helper()

	n := &models.Notification{
		ID:      fmt.Sprintf("payment-test-%d", nextID()),
		UserID:  userID,
		Type:    models.NotificationTypePayment,
		Title:   "Upcoming Payment",
		Message: "Test payment notification",
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
