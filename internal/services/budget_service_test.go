package services

import (
	"testing"
	"time"

	"subtrackt/internal/testutil"
)

func TestUpsertBudget(t *testing.T) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	t.Run("creates_record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 20)

		budget, err := svc.UpsertBudget(user.ID, category.ID, 40, month, year)
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected non-empty budget ID")
		}
		if budget.Amount != 40 {
			t.Errorf("expected amount 40, got %v", budget.Amount)
		}
	})

	t.Run("overwrites_same_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 20)

		first, err := svc.UpsertBudget(user.ID, category.ID, 40, month, year)
		testutil.AssertNoError(t, err)
		second, err := svc.UpsertBudget(user.ID, category.ID, 55, month, year)
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected the same record, got IDs %s and %s", first.ID, second.ID)
		}

		budgets, err := svc.GetPeriodBudgets(user.ID, month, year)
		testutil.AssertNoError(t, err)
		if len(budgets) != 1 {
			t.Fatalf("expected 1 record, got %d", len(budgets))
		}
		if budgets[0].Amount != 55 {
			t.Errorf("expected amount 55, got %v", budgets[0].Amount)
		}
	})

	t.Run("distinct_periods_coexist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 20)

		_, err := svc.UpsertBudget(user.ID, category.ID, 40, 1, 2026)
		testutil.AssertNoError(t, err)
		_, err = svc.UpsertBudget(user.ID, category.ID, 45, 2, 2026)
		testutil.AssertNoError(t, err)

		jan, err := svc.GetPeriodBudgets(user.ID, 1, 2026)
		testutil.AssertNoError(t, err)
		feb, err := svc.GetPeriodBudgets(user.ID, 2, 2026)
		testutil.AssertNoError(t, err)
		if len(jan) != 1 || len(feb) != 1 {
			t.Errorf("expected one record per period, got %d and %d", len(jan), len(feb))
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpsertBudget(user.ID, "missing", 40, month, year)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 20)

		_, err := svc.UpsertBudget(user.ID, category.ID, 40, 13, year)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user2.ID, 20)

		_, err := svc.UpsertBudget(user1.ID, category.ID, 40, month, year)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
