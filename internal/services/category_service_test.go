package services

import (
	"testing"

	"subtrackt/internal/pagination"
	"subtrackt/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category, err := svc.CreateCategory(user.ID, "Entertainment", 50, "#ff0000")
		testutil.AssertNoError(t, err)

		if category.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if category.Budget != 50 {
			t.Errorf("expected budget 50, got %v", category.Budget)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Entertainment", 50, "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Entertainment", 30, "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user1.ID, "Entertainment", 50, "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user2.ID, "Entertainment", 30, "")
		testutil.AssertNoError(t, err)
	})

	t.Run("negative_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Entertainment", -1, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	t.Run("returns_user_categories_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestCategory(t, db, user1.ID, 20)
		testutil.CreateTestCategory(t, db, user1.ID, 30)
		testutil.CreateTestCategory(t, db, user2.ID, 40)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserCategories(user1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 categories, got %d", result.TotalItems)
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 20)

		budget := 75.0
		updated, err := svc.UpdateCategory(user.ID, category.ID, "Streaming", &budget, "#00ff00")
		testutil.AssertNoError(t, err)

		got, err := svc.GetCategoryByID(user.ID, updated.ID)
		testutil.AssertNoError(t, err)
		if got.Name != "Streaming" || got.Budget != 75 || got.Color != "#00ff00" {
			t.Errorf("unexpected category after update: %+v", got)
		}
	})

	t.Run("rename_collision", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		existing := testutil.CreateTestCategory(t, db, user.ID, 20)
		category := testutil.CreateTestCategory(t, db, user.ID, 30)

		_, err := svc.UpdateCategory(user.ID, category.ID, existing.Name, nil, "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateCategory(user.ID, "missing", "X", nil, "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 20)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))

		_, err := svc.GetCategoryByID(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("keeps_subscription_labels", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 20)
		sub := testutil.CreateTestSubscription(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))

		subSvc := NewSubscriptionService(db)
		got, err := subSvc.GetSubscriptionByID(user.ID, sub.ID)
		testutil.AssertNoError(t, err)
		if got.Category == "" {
			t.Error("subscription should keep its category label")
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user2.ID, 20)

		err := svc.DeleteCategory(user1.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
