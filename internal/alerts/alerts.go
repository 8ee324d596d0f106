// Package alerts derives notifications from a snapshot of a user's records:
// budget threshold alerts, payment and renewal reminders, and cancellation
// notices. Generators are pure and assign deterministic IDs so that re-running
// them over unchanged data upserts rather than duplicates.
package alerts

import (
	"fmt"
	"math"
	"time"

	"subtrackt/internal/billing"
	"subtrackt/internal/models"
)

// BudgetSource selects which budget figure the evaluator uses when a category
// carries both an embedded ceiling and a per-period budget record.
type BudgetSource int

const (
	// BudgetSourcePeriodFirst prefers the per-period record and falls back to
	// the category's embedded ceiling.
	BudgetSourcePeriodFirst BudgetSource = iota
	// BudgetSourceCategory ignores per-period records entirely.
	BudgetSourceCategory
)

// renewalNoticeDays is how far ahead yearly renewals produce a reminder.
const renewalNoticeDays = 7

// BudgetAmount resolves the effective monthly ceiling for a category.
func BudgetAmount(category models.Category, budgets []models.Budget, source BudgetSource) float64 {
	if source == BudgetSourcePeriodFirst {
		for _, b := range budgets {
			if b.CategoryID == category.ID {
				return b.Amount
			}
		}
	}
	return category.Budget
}

// PercentageUsed returns spend as a percentage of budget. A zero budget reads
// as 0%, never a division error.
func PercentageUsed(budget, spent float64) float64 {
	if budget <= 0 {
		return 0
	}
	return spent / budget * 100
}

// SeverityFor classifies percentage-used into a severity band. The empty
// string means no alert.
func SeverityFor(percentageUsed float64) models.Severity {
	switch {
	case percentageUsed >= 100:
		return models.SeverityDanger
	case percentageUsed >= 90:
		return models.SeverityWarning
	case percentageUsed >= 80:
		return models.SeverityCaution
	default:
		return ""
	}
}

// EvaluateBudgets produces at most one alert per (category, severity) for
// every category whose current spend has crossed a threshold. IDs are derived
// from category name and severity band, so repeated evaluation of the same
// snapshot is idempotent.
func EvaluateBudgets(
	categories []models.Category,
	budgets []models.Budget,
	subs []models.Subscription,
	source BudgetSource,
	userID string,
) []models.Notification {
	var out []models.Notification
	for _, category := range categories {
		budget := BudgetAmount(category, budgets, source)
		spent := billing.CategorySpend(subs, category.Name)
		pct := PercentageUsed(budget, spent)

		severity := SeverityFor(pct)
		if severity == "" {
			continue
		}

		out = append(out, models.Notification{
			ID:       fmt.Sprintf("budget-%s-%s", category.Name, severity),
			UserID:   userID,
			Type:     models.NotificationTypeBudget,
			Severity: severity,
			Title:    "Budget Alert",
			Message: fmt.Sprintf("%s category has reached %.1f%% of its monthly budget ($%.2f/$%.2f)",
				category.Name, pct, spent, budget),
			RelatedID: category.ID,
		})
	}
	return out
}

// PaymentReminders returns a reminder for every active subscription whose
// next payment falls within its reminder lead time.
func PaymentReminders(subs []models.Subscription, now time.Time) []models.Notification {
	var out []models.Notification
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusActive {
			continue
		}
		days := daysUntil(sub.NextPayment, now)
		if days <= 0 || days > sub.ReminderDays {
			continue
		}
		out = append(out, models.Notification{
			ID:     fmt.Sprintf("payment-%s-%d", sub.ID, days),
			UserID: sub.UserID,
			Type:   models.NotificationTypePayment,
			Title:  "Upcoming Payment",
			Message: fmt.Sprintf("Payment of $%.2f for %s is due in %d days",
				sub.Amount, sub.Name, days),
			RelatedID: sub.ID,
		})
	}
	return out
}

// RenewalReminders returns a notice for every active yearly subscription
// renewing within the next seven days.
func RenewalReminders(subs []models.Subscription, now time.Time) []models.Notification {
	var out []models.Notification
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusActive || sub.BillingCycle != models.BillingCycleYearly {
			continue
		}
		days := daysUntil(sub.NextPayment, now)
		if days <= 0 || days > renewalNoticeDays {
			continue
		}
		out = append(out, models.Notification{
			ID:     fmt.Sprintf("renewal-%s-%d", sub.ID, days),
			UserID: sub.UserID,
			Type:   models.NotificationTypeRenewal,
			Title:  "Annual Renewal",
			Message: fmt.Sprintf("%s subscription will renew automatically in %d days",
				sub.Name, days),
			RelatedID: sub.ID,
		})
	}
	return out
}

// CancellationNotices returns a notice for every inactive subscription.
func CancellationNotices(subs []models.Subscription) []models.Notification {
	var out []models.Notification
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusInactive {
			continue
		}
		out = append(out, models.Notification{
			ID:        fmt.Sprintf("cancellation-%s", sub.ID),
			UserID:    sub.UserID,
			Type:      models.NotificationTypeCancellation,
			Title:     "Subscription Cancelled",
			Message:   fmt.Sprintf("%s subscription has been cancelled", sub.Name),
			RelatedID: sub.ID,
		})
	}
	return out
}

// Generate runs every generator over a full snapshot.
func Generate(
	subs []models.Subscription,
	categories []models.Category,
	budgets []models.Budget,
	source BudgetSource,
	userID string,
	now time.Time,
) []models.Notification {
	var out []models.Notification
	out = append(out, EvaluateBudgets(categories, budgets, subs, source, userID)...)
	out = append(out, PaymentReminders(subs, now)...)
	out = append(out, RenewalReminders(subs, now)...)
	out = append(out, CancellationNotices(subs)...)
	return out
}

func daysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}
