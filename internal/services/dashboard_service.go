package services

import (
	"subtrackt/internal/alerts"
	"subtrackt/internal/billing"
	apperrors "subtrackt/internal/errors"
	"subtrackt/internal/models"
	"subtrackt/internal/store"
)

// defaultHistoryMonths is the trailing window returned when the caller does
// not ask for a specific length.
const defaultHistoryMonths = 6

// dashboardService serves read-side aggregates out of the per-user state
// containers. Every call refreshes the container first, so the derived
// numbers always reflect the latest committed records.
type dashboardService struct {
	registry *store.Registry
	clock    store.Clock
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(registry *store.Registry, clock store.Clock) DashboardServicer {
	if clock == nil {
		clock = store.SystemClock
	}
	return &dashboardService{registry: registry, clock: clock}
}

func (s *dashboardService) refresh(userID string) (*store.Container, error) {
	container := s.registry.GetOrCreate(userID)
	if err := container.Refresh(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return container, nil
}

// GetSummary returns the headline aggregates for one user.
func (s *dashboardService) GetSummary(userID string) (*DashboardSummary, error) {
	container, err := s.refresh(userID)
	if err != nil {
		return nil, err
	}

	subs := container.Subscriptions()
	budgets := container.Budgets()
	notifications := container.Notifications()

	return &DashboardSummary{
		TotalMonthlySpend:   subs.Derived.TotalMonthlySpend,
		ActiveSubscriptions: subs.Derived.ActiveCount,
		UpcomingPayments:    subs.Derived.UpcomingPayments,
		ProjectedAnnual:     subs.Derived.ProjectedAnnual,
		Trend:               subs.Derived.Trend,
		TotalBudget:         budgets.Derived.TotalBudget,
		UnreadNotifications: notifications.Derived.UnreadCount,
	}, nil
}

// GetSpendingHistory returns the trailing monthly spend series, oldest first.
func (s *dashboardService) GetSpendingHistory(userID string, months int) ([]billing.MonthlySpend, error) {
	if months <= 0 {
		months = defaultHistoryMonths
	}

	container, err := s.refresh(userID)
	if err != nil {
		return nil, err
	}

	state := container.Subscriptions()
	return billing.MonthlySpendingHistory(state.Subscriptions, months, s.clock()), nil
}

// GetUpcomingRenewals returns active subscriptions due within the next 30
// days, soonest first.
func (s *dashboardService) GetUpcomingRenewals(userID string) ([]models.Subscription, error) {
	container, err := s.refresh(userID)
	if err != nil {
		return nil, err
	}

	state := container.Subscriptions()
	return billing.UpcomingRenewals(state.Subscriptions, s.clock()), nil
}

// GetCategoryUsage returns per-category spend against the effective budget,
// period records taking precedence over embedded ceilings.
func (s *dashboardService) GetCategoryUsage(userID string) ([]CategoryUsage, error) {
	container, err := s.refresh(userID)
	if err != nil {
		return nil, err
	}

	subs := container.Subscriptions()
	budgets := container.Budgets()

	usage := make([]CategoryUsage, 0, len(budgets.Categories))
	for _, category := range budgets.Categories {
		spend := billing.CategorySpend(subs.Subscriptions, category.Name)
		budget := alerts.BudgetAmount(category, budgets.Budgets, alerts.BudgetSourcePeriodFirst)
		pct := alerts.PercentageUsed(budget, spend)
		usage = append(usage, CategoryUsage{
			CategoryID:     category.ID,
			Name:           category.Name,
			Color:          category.Color,
			Spend:          spend,
			Budget:         budget,
			PercentageUsed: pct,
			Severity:       alerts.SeverityFor(pct),
		})
	}
	return usage, nil
}
