package services

import (
	"time"

	"subtrackt/internal/billing"
	"subtrackt/internal/models"
	"subtrackt/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, error)
	UpdatePlan(userID string, plan models.Plan) (*models.User, error)
}

// ProfileUpdate holds optional profile fields; nil means leave unchanged.
type ProfileUpdate struct {
	Name     *string
	PhotoURL *string
	Phone    *string
	Country  *string
	Bio      *string
}

// SubscriptionInput carries the writable fields of a subscription.
type SubscriptionInput struct {
	Name         string
	Amount       float64
	BillingCycle models.BillingCycle
	Category     string
	StartDate    time.Time
	EndDate      *time.Time
	Description  string
	ReminderDays int
}

// SubscriptionServicer defines the contract for subscription-related business logic.
type SubscriptionServicer interface {
	CreateSubscription(userID string, input SubscriptionInput) (*models.Subscription, error)
	GetUserSubscriptions(userID string, page pagination.PageRequest, status *models.SubscriptionStatus) (*pagination.PageResponse[models.Subscription], error)
	GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error)
	UpdateSubscription(userID, subscriptionID string, input SubscriptionInput) (*models.Subscription, error)
	ToggleStatus(userID, subscriptionID string) (*models.Subscription, error)
	DeleteSubscription(userID, subscriptionID string) error
	GetSubscriptionPayments(userID, subscriptionID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error)
	RegeneratePayments(userID, subscriptionID string) ([]models.Payment, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, budget float64, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name string, budget *float64, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// BudgetServicer defines the contract for per-period budget records.
type BudgetServicer interface {
	UpsertBudget(userID, categoryID string, amount float64, month, year int) (*models.Budget, error)
	GetPeriodBudgets(userID string, month, year int) ([]models.Budget, error)
}

// NotificationServicer defines the contract for derived notifications.
type NotificationServicer interface {
	Regenerate(userID string) ([]models.Notification, error)
	GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID string) (*models.Notification, error)
	MarkAllRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	ClearNotifications(userID string) error
}

// DashboardSummary is the headline aggregate block for one user.
type DashboardSummary struct {
	TotalMonthlySpend   float64       `json:"total_monthly_spend"`
	ActiveSubscriptions int           `json:"active_subscriptions"`
	UpcomingPayments    int           `json:"upcoming_payments"`
	ProjectedAnnual     float64       `json:"projected_annual"`
	Trend               billing.Trend `json:"trend"`
	TotalBudget         float64       `json:"total_budget"`
	UnreadNotifications int           `json:"unread_notifications"`
}

// CategoryUsage is one category's spend against its effective budget.
type CategoryUsage struct {
	CategoryID     string          `json:"category_id"`
	Name           string          `json:"name"`
	Color          string          `json:"color"`
	Spend          float64         `json:"spend"`
	Budget         float64         `json:"budget"`
	PercentageUsed float64         `json:"percentage_used"`
	Severity       models.Severity `json:"severity,omitempty"`
}

// DashboardServicer defines the contract for read-side aggregates.
type DashboardServicer interface {
	GetSummary(userID string) (*DashboardSummary, error)
	GetSpendingHistory(userID string, months int) ([]billing.MonthlySpend, error)
	GetUpcomingRenewals(userID string) ([]models.Subscription, error)
	GetCategoryUsage(userID string) ([]CategoryUsage, error)
}
