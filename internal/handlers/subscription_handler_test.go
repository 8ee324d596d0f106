package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "subtrackt/internal/errors"
	"subtrackt/internal/models"
	"subtrackt/internal/pagination"
	"subtrackt/internal/services"
)

// --- mock subscription service ---

type mockSubscriptionService struct {
	createFn      func(userID string, input services.SubscriptionInput) (*models.Subscription, error)
	listFn        func(userID string, page pagination.PageRequest, status *models.SubscriptionStatus) (*pagination.PageResponse[models.Subscription], error)
	getFn         func(userID, subscriptionID string) (*models.Subscription, error)
	updateFn      func(userID, subscriptionID string, input services.SubscriptionInput) (*models.Subscription, error)
	toggleFn      func(userID, subscriptionID string) (*models.Subscription, error)
	deleteFn      func(userID, subscriptionID string) error
	getPaymentsFn func(userID, subscriptionID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error)
	regenerateFn  func(userID, subscriptionID string) ([]models.Payment, error)
}

func (m *mockSubscriptionService) CreateSubscription(userID string, input services.SubscriptionInput) (*models.Subscription, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &models.Subscription{Base: models.Base{ID: "sub-1"}, Name: input.Name}, nil
}

func (m *mockSubscriptionService) GetUserSubscriptions(userID string, page pagination.PageRequest, status *models.SubscriptionStatus) (*pagination.PageResponse[models.Subscription], error) {
	if m.listFn != nil {
		return m.listFn(userID, page, status)
	}
	resp := pagination.NewPageResponse([]models.Subscription{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockSubscriptionService) GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error) {
	if m.getFn != nil {
		return m.getFn(userID, subscriptionID)
	}
	return &models.Subscription{Base: models.Base{ID: subscriptionID}}, nil
}

func (m *mockSubscriptionService) UpdateSubscription(userID, subscriptionID string, input services.SubscriptionInput) (*models.Subscription, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, subscriptionID, input)
	}
	return &models.Subscription{Base: models.Base{ID: subscriptionID}}, nil
}

func (m *mockSubscriptionService) ToggleStatus(userID, subscriptionID string) (*models.Subscription, error) {
	if m.toggleFn != nil {
		return m.toggleFn(userID, subscriptionID)
	}
	return &models.Subscription{Base: models.Base{ID: subscriptionID}, Status: models.SubscriptionStatusInactive}, nil
}

func (m *mockSubscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, subscriptionID)
	}
	return nil
}

func (m *mockSubscriptionService) GetSubscriptionPayments(userID, subscriptionID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error) {
	if m.getPaymentsFn != nil {
		return m.getPaymentsFn(userID, subscriptionID, page)
	}
	resp := pagination.NewPageResponse([]models.Payment{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockSubscriptionService) RegeneratePayments(userID, subscriptionID string) ([]models.Payment, error) {
	if m.regenerateFn != nil {
		return m.regenerateFn(userID, subscriptionID)
	}
	return []models.Payment{}, nil
}

var _ services.SubscriptionServicer = (*mockSubscriptionService)(nil)

func setupSubscriptionRouter(handler *SubscriptionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/subscriptions", handler.CreateSubscription)
	auth.GET("/subscriptions", handler.GetSubscriptions)
	auth.GET("/subscriptions/:id", handler.GetSubscription)
	auth.PUT("/subscriptions/:id", handler.UpdateSubscription)
	auth.POST("/subscriptions/:id/toggle", handler.ToggleSubscription)
	auth.DELETE("/subscriptions/:id", handler.DeleteSubscription)
	auth.GET("/subscriptions/:id/payments", handler.GetSubscriptionPayments)
	auth.POST("/subscriptions/:id/payments/regenerate", handler.RegeneratePayments)
	return r
}

func TestSubscriptionHandler_CreateSubscription(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "POST", "/subscriptions",
			`{"name":"Netflix","amount":15.49,"billing_cycle":"monthly","category":"Entertainment","start_date":"2026-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		sub := result["subscription"].(map[string]interface{})
		if sub["name"] != "Netflix" {
			t.Errorf("expected Netflix, got %v", sub["name"])
		}
	})

	t.Run("rejects unknown billing cycle", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "POST", "/subscriptions",
			`{"name":"Netflix","amount":15.49,"billing_cycle":"weekly","start_date":"2026-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "POST", "/subscriptions",
			`{"name":"Netflix","amount":0,"billing_cycle":"monthly","start_date":"2026-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("propagates plan limit", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{
			createFn: func(userID string, input services.SubscriptionInput) (*models.Subscription, error) {
				return nil, apperrors.ErrPlanLimitReached
			},
		})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "POST", "/subscriptions",
			`{"name":"Netflix","amount":15.49,"billing_cycle":"monthly","start_date":"2026-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PLAN_LIMIT_REACHED")
	})
}

func TestSubscriptionHandler_GetSubscriptions(t *testing.T) {
	t.Run("rejects invalid status filter", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "GET", "/subscriptions?status=paused", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 200 with page", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "GET", "/subscriptions?status=active&page=1&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestSubscriptionHandler_ToggleSubscription(t *testing.T) {
	t.Run("returns toggled subscription", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "POST", "/subscriptions/sub-1/toggle", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		sub := result["subscription"].(map[string]interface{})
		if sub["status"] != "inactive" {
			t.Errorf("expected inactive, got %v", sub["status"])
		}
	})
}

func TestSubscriptionHandler_RegeneratePayments(t *testing.T) {
	t.Run("returns rebuilt payments", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{
			regenerateFn: func(userID, subscriptionID string) ([]models.Payment, error) {
				return []models.Payment{{SubscriptionID: subscriptionID, Amount: 9.99}}, nil
			},
		})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "POST", "/subscriptions/sub-1/payments/regenerate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		payments := result["payments"].([]interface{})
		if len(payments) != 1 {
			t.Errorf("expected 1 payment, got %d", len(payments))
		}
	})

	t.Run("propagates not found", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{
			regenerateFn: func(userID, subscriptionID string) ([]models.Payment, error) {
				return nil, apperrors.ErrSubscriptionNotFound
			},
		})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "POST", "/subscriptions/missing/payments/regenerate", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSubscriptionHandler_DeleteSubscription(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "DELETE", "/subscriptions/sub-1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("propagates not found", func(t *testing.T) {
		handler := NewSubscriptionHandler(&mockSubscriptionService{
			deleteFn: func(userID, subscriptionID string) error {
				return apperrors.ErrSubscriptionNotFound
			},
		})
		r := setupSubscriptionRouter(handler)

		rec := doRequest(r, "DELETE", "/subscriptions/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
