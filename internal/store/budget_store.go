package store

import (
	"subtrackt/internal/alerts"
	"subtrackt/internal/models"
)

// BudgetDerived holds aggregates over the category/budget collections.
type BudgetDerived struct {
	// TotalBudget sums the effective monthly ceiling of every category,
	// period records taking precedence over embedded ceilings.
	TotalBudget float64 `json:"total_budget"`
}

// BudgetState is the budget container's full state: the user's categories
// plus the current period's budget records.
type BudgetState struct {
	Status     Status
	Err        error
	Categories []models.Category
	Budgets    []models.Budget
	Derived    BudgetDerived
}

// BudgetAction is the closed set of budget-state transitions.
type BudgetAction interface{ isBudgetAction() }

// BudgetLoadStarted marks the beginning of a snapshot load.
type BudgetLoadStarted struct{}

// BudgetSnapshotArrived replaces both collections with an authoritative snapshot.
type BudgetSnapshotArrived struct {
	Categories []models.Category
	Budgets    []models.Budget
}

// BudgetLoadFailed records a load error and resets both collections.
type BudgetLoadFailed struct{ Err error }

// CategoryUpserted optimistically adds or replaces one category.
type CategoryUpserted struct{ Category models.Category }

// CategoryRemoved optimistically removes one category. Subscriptions keep
// their label; orphaned labels are tolerated.
type CategoryRemoved struct{ ID string }

// BudgetUpserted optimistically adds or replaces the period budget record for
// a category.
type BudgetUpserted struct{ Budget models.Budget }

func (BudgetLoadStarted) isBudgetAction()     {}
func (BudgetSnapshotArrived) isBudgetAction() {}
func (BudgetLoadFailed) isBudgetAction()      {}
func (CategoryUpserted) isBudgetAction()      {}
func (CategoryRemoved) isBudgetAction()       {}
func (BudgetUpserted) isBudgetAction()        {}

// ReduceBudgets applies one action to the state and recomputes the derived
// totals. It never mutates its input.
func ReduceBudgets(state BudgetState, action BudgetAction) BudgetState {
	next := state

	switch a := action.(type) {
	case BudgetLoadStarted:
		next.Status = StatusLoading
		next.Err = nil

	case BudgetSnapshotArrived:
		next.Status = StatusReady
		next.Err = nil
		next.Categories = append([]models.Category(nil), a.Categories...)
		next.Budgets = append([]models.Budget(nil), a.Budgets...)

	case BudgetLoadFailed:
		next.Status = StatusError
		next.Err = a.Err
		next.Categories = nil
		next.Budgets = nil

	case CategoryUpserted:
		out := append([]models.Category(nil), state.Categories...)
		replaced := false
		for i := range out {
			if out[i].ID == a.Category.ID {
				out[i] = a.Category
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, a.Category)
		}
		next.Categories = out

	case CategoryRemoved:
		out := make([]models.Category, 0, len(state.Categories))
		for _, c := range state.Categories {
			if c.ID != a.ID {
				out = append(out, c)
			}
		}
		next.Categories = out

	case BudgetUpserted:
		out := append([]models.Budget(nil), state.Budgets...)
		replaced := false
		for i := range out {
			if out[i].CategoryID == a.Budget.CategoryID && out[i].Month == a.Budget.Month && out[i].Year == a.Budget.Year {
				out[i] = a.Budget
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, a.Budget)
		}
		next.Budgets = out
	}

	var total float64
	for _, c := range next.Categories {
		total += alerts.BudgetAmount(c, next.Budgets, alerts.BudgetSourcePeriodFirst)
	}
	next.Derived = BudgetDerived{TotalBudget: total}
	return next
}
