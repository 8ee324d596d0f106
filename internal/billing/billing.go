// Package billing contains the pure spending arithmetic: normalizing prices
// across billing cycles, aggregate spend figures, trailing spending history,
// trend computation, and next-payment scheduling. Every function is total and
// side-effect free; degenerate inputs resolve to zero values, never errors.
package billing

import (
	"math"
	"sort"
	"time"

	"subtrackt/internal/models"
)

// epsilon is the threshold below which a monthly figure is treated as zero
// when computing trends.
const epsilon = 0.01

// daysPerMonth is the average Gregorian month length, used to estimate the
// months remaining until an end date.
const daysPerMonth = 30.44

// CycleMonths returns the number of months covered by one billing interval.
// Unknown cycles count as one month.
func CycleMonths(cycle models.BillingCycle) int {
	switch cycle {
	case models.BillingCycleYearly:
		return 12
	case models.BillingCycleQuarterly:
		return 3
	default:
		return 1
	}
}

// MonthlyEquivalent converts a price and billing cycle into a per-month
// figure. Unrecognized cycles fall back to the amount unchanged.
func MonthlyEquivalent(amount float64, cycle models.BillingCycle) float64 {
	switch cycle {
	case models.BillingCycleYearly:
		return amount / 12
	case models.BillingCycleQuarterly:
		return amount / 3
	default:
		return amount
	}
}

// NextPaymentDate returns the earliest cycle-aligned date on or after now
// that is reachable from start by repeated addition of one billing interval.
// A start date in the future is returned unchanged.
func NextPaymentDate(start time.Time, cycle models.BillingCycle, now time.Time) time.Time {
	d := start
	today := dayStart(now)
	for d.Before(today) {
		next := addCycle(d, cycle)
		if !next.After(d) {
			break
		}
		d = next
	}
	return d
}

func addCycle(d time.Time, cycle models.BillingCycle) time.Time {
	switch cycle {
	case models.BillingCycleYearly:
		return d.AddDate(1, 0, 0)
	case models.BillingCycleQuarterly:
		return d.AddDate(0, 3, 0)
	default:
		return d.AddDate(0, 1, 0)
	}
}

// TotalMonthlySpend sums the monthly equivalents of all active subscriptions.
func TotalMonthlySpend(subs []models.Subscription) float64 {
	var total float64
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusActive {
			continue
		}
		total += MonthlyEquivalent(sub.Amount, sub.BillingCycle)
	}
	return total
}

// ActiveCount returns the number of active subscriptions.
func ActiveCount(subs []models.Subscription) int {
	count := 0
	for _, sub := range subs {
		if sub.Status == models.SubscriptionStatusActive {
			count++
		}
	}
	return count
}

// CategorySpend sums the monthly equivalents of active subscriptions carrying
// the given category label.
func CategorySpend(subs []models.Subscription, category string) float64 {
	var total float64
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusActive || sub.Category != category {
			continue
		}
		total += MonthlyEquivalent(sub.Amount, sub.BillingCycle)
	}
	return total
}

// UpcomingPaymentsCount counts active subscriptions whose next payment falls
// within the next seven calendar days, inclusive. Time of day is normalized
// away before comparison.
func UpcomingPaymentsCount(subs []models.Subscription, now time.Time) int {
	return len(dueWithin(subs, now, 7))
}

// UpcomingRenewals returns the active subscriptions due within the next
// thirty calendar days, sorted ascending by next payment date.
func UpcomingRenewals(subs []models.Subscription, now time.Time) []models.Subscription {
	due := dueWithin(subs, now, 30)
	sort.Slice(due, func(i, j int) bool {
		return due[i].NextPayment.Before(due[j].NextPayment)
	})
	return due
}

func dueWithin(subs []models.Subscription, now time.Time, days int) []models.Subscription {
	today := dayStart(now)
	windowEnd := today.AddDate(0, 0, days)

	var due []models.Subscription
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusActive {
			continue
		}
		payDay := dayStart(sub.NextPayment)
		if !payDay.Before(today) && !payDay.After(windowEnd) {
			due = append(due, sub)
		}
	}
	return due
}

// MonthlySpend is one month's aggregate in a spending history.
type MonthlySpend struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// MonthlySpendingHistory computes the aggregate monthly-equivalent spend for
// each of the trailing months calendar months, current month included.
//
// A subscription contributes to a month when it had started by the first day
// of that month, its end date (if any) had not passed by then, and it is
// either active or inactive with an end date still covering the month. An
// inactive subscription with no end date contributes nothing.
func MonthlySpendingHistory(subs []models.Subscription, months int, now time.Time) []MonthlySpend {
	if months <= 0 {
		return []MonthlySpend{}
	}

	result := make([]MonthlySpend, 0, months)
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for i := months - 1; i >= 0; i-- {
		firstOfMonth := firstOfCurrent.AddDate(0, -i, 0)
		var amount float64
		for _, sub := range subs {
			if coversMonth(sub, firstOfMonth) {
				amount += MonthlyEquivalent(sub.Amount, sub.BillingCycle)
			}
		}
		result = append(result, MonthlySpend{
			Month:  firstOfMonth.Format("Jan 2006"),
			Amount: amount,
		})
	}
	return result
}

func coversMonth(sub models.Subscription, firstOfMonth time.Time) bool {
	if sub.StartDate.After(firstOfMonth) {
		return false
	}
	if sub.EndDate != nil && sub.EndDate.Before(firstOfMonth) {
		return false
	}
	if sub.Status == models.SubscriptionStatusActive {
		return true
	}
	// Cancelled but not yet ended: counts while the end date covers the month.
	return sub.EndDate != nil && !sub.EndDate.Before(firstOfMonth)
}

// TrendDirection indicates how spend moved month over month.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// Trend is the month-over-month spending movement.
type Trend struct {
	Percentage float64        `json:"percentage"`
	Direction  TrendDirection `json:"trend"`
}

// SpendingTrend compares the current month's spend against the previous
// month's. Two near-zero months are neutral; a jump from zero to a positive
// figure reads as a 100% increase.
func SpendingTrend(subs []models.Subscription, now time.Time) Trend {
	history := MonthlySpendingHistory(subs, 2, now)
	if len(history) < 2 {
		return Trend{Percentage: 0, Direction: TrendNeutral}
	}

	current := history[1].Amount
	previous := history[0].Amount

	if math.Abs(current) < epsilon && math.Abs(previous) < epsilon {
		return Trend{Percentage: 0, Direction: TrendNeutral}
	}

	if math.Abs(previous) < epsilon {
		if current > 0 {
			return Trend{Percentage: 100, Direction: TrendUp}
		}
		return Trend{Percentage: 0, Direction: TrendNeutral}
	}

	percentage := (current - previous) / previous * 100
	direction := TrendNeutral
	switch {
	case math.Abs(percentage) < epsilon:
		direction = TrendNeutral
	case percentage > 0:
		direction = TrendUp
	default:
		direction = TrendDown
	}

	return Trend{Percentage: math.Abs(percentage), Direction: direction}
}

// ProjectedAnnualSpend sums, per active subscription, the monthly equivalent
// times the months remaining until its end date, capped at twelve. Open-ended
// subscriptions project a full year.
func ProjectedAnnualSpend(subs []models.Subscription, now time.Time) float64 {
	var total float64
	for _, sub := range subs {
		if sub.Status != models.SubscriptionStatusActive {
			continue
		}

		end := now.AddDate(1, 0, 0)
		if sub.EndDate != nil {
			end = *sub.EndDate
		}

		days := end.Sub(now).Hours() / 24
		monthsRemaining := math.Ceil(days / daysPerMonth)
		if monthsRemaining < 0 {
			monthsRemaining = 0
		}
		if monthsRemaining > 12 {
			monthsRemaining = 12
		}

		total += MonthlyEquivalent(sub.Amount, sub.BillingCycle) * monthsRemaining
	}
	return total
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
