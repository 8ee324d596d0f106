package store

import (
	"time"

	"subtrackt/internal/billing"
	"subtrackt/internal/models"
)

// SubscriptionDerived holds the aggregates recomputed after every change to
// the subscription collection.
type SubscriptionDerived struct {
	TotalMonthlySpend float64       `json:"total_monthly_spend"`
	ActiveCount       int           `json:"active_count"`
	UpcomingPayments  int           `json:"upcoming_payments"`
	ProjectedAnnual   float64       `json:"projected_annual"`
	Trend             billing.Trend `json:"trend"`
}

// SubscriptionState is the subscription container's full state.
type SubscriptionState struct {
	Status        Status
	Err           error
	Subscriptions []models.Subscription
	Derived       SubscriptionDerived
}

// SubscriptionAction is the closed set of subscription-state transitions.
type SubscriptionAction interface{ isSubscriptionAction() }

// SubLoadStarted marks the beginning of a snapshot load.
type SubLoadStarted struct{}

// SubSnapshotArrived replaces the collection with an authoritative snapshot.
type SubSnapshotArrived struct{ Subscriptions []models.Subscription }

// SubLoadFailed records a load error and resets the collection.
type SubLoadFailed struct{ Err error }

// SubUpserted optimistically adds or replaces one subscription.
type SubUpserted struct{ Subscription models.Subscription }

// SubRemoved optimistically removes one subscription.
type SubRemoved struct{ ID string }

// SubStatusToggled optimistically flips one subscription's status.
type SubStatusToggled struct{ ID string }

func (SubLoadStarted) isSubscriptionAction()    {}
func (SubSnapshotArrived) isSubscriptionAction() {}
func (SubLoadFailed) isSubscriptionAction()     {}
func (SubUpserted) isSubscriptionAction()       {}
func (SubRemoved) isSubscriptionAction()        {}
func (SubStatusToggled) isSubscriptionAction()  {}

// ReduceSubscriptions applies one action to the state and recomputes the
// derived aggregates. It never mutates its input.
func ReduceSubscriptions(state SubscriptionState, action SubscriptionAction, now time.Time) SubscriptionState {
	next := state

	switch a := action.(type) {
	case SubLoadStarted:
		next.Status = StatusLoading
		next.Err = nil

	case SubSnapshotArrived:
		next.Status = StatusReady
		next.Err = nil
		next.Subscriptions = append([]models.Subscription(nil), a.Subscriptions...)

	case SubLoadFailed:
		next.Status = StatusError
		next.Err = a.Err
		next.Subscriptions = nil

	case SubUpserted:
		next.Subscriptions = upsertSubscription(state.Subscriptions, a.Subscription)

	case SubRemoved:
		out := make([]models.Subscription, 0, len(state.Subscriptions))
		for _, s := range state.Subscriptions {
			if s.ID != a.ID {
				out = append(out, s)
			}
		}
		next.Subscriptions = out

	case SubStatusToggled:
		out := append([]models.Subscription(nil), state.Subscriptions...)
		for i := range out {
			if out[i].ID != a.ID {
				continue
			}
			if out[i].Status == models.SubscriptionStatusActive {
				out[i].Status = models.SubscriptionStatusInactive
			} else {
				out[i].Status = models.SubscriptionStatusActive
			}
		}
		next.Subscriptions = out
	}

	next.Derived = SubscriptionDerived{
		TotalMonthlySpend: billing.TotalMonthlySpend(next.Subscriptions),
		ActiveCount:       billing.ActiveCount(next.Subscriptions),
		UpcomingPayments:  billing.UpcomingPaymentsCount(next.Subscriptions, now),
		ProjectedAnnual:   billing.ProjectedAnnualSpend(next.Subscriptions, now),
		Trend:             billing.SpendingTrend(next.Subscriptions, now),
	}
	return next
}

func upsertSubscription(subs []models.Subscription, sub models.Subscription) []models.Subscription {
	out := append([]models.Subscription(nil), subs...)
	for i := range out {
		if out[i].ID == sub.ID {
			out[i] = sub
			return out
		}
	}
	return append(out, sub)
}
