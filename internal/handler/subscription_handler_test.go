package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/memberclub/internal/model"
)

type mockSubscriptionService struct {
	subscribeFn        func(ctx context.Context, userID, planPricingID string) (*model.Subscription, error)
	cancelFn           func(ctx context.Context, userID string) error
	getActiveFn        func(ctx context.Context, userID string) (*model.Subscription, error)
	checkEligibilityFn func(ctx context.Context, userID, tierID string) (bool, error)
}

func (m *mockSubscriptionService) Subscribe(ctx context.Context, userID, planPricingID string) (*model.Subscription, error) {
	if m.subscribeFn != nil {
		return m.subscribeFn(ctx, userID, planPricingID)
	}
	return nil, nil
}
func (m *mockSubscriptionService) Cancel(ctx context.Context, userID string) error {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, userID)
	}
	return nil
}
func (m *mockSubscriptionService) GetActive(ctx context.Context, userID string) (*model.Subscription, error) {
	if m.getActiveFn != nil {
		return m.getActiveFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockSubscriptionService) CheckEligibility(ctx context.Context, userID, tierID string) (bool, error) {
	if m.checkEligibilityFn != nil {
		return m.checkEligibilityFn(ctx, userID, tierID)
	}
	return false, nil
}

func subscriptionTestRouter(service SubscriptionServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewSubscriptionHandler(service)
	r.Post("/api/subscriptions", h.Subscribe)
	r.Get("/api/users/{id}/subscription", h.GetSubscription)
	r.Delete("/api/users/{id}/subscription", h.CancelSubscription)
	r.Get("/api/users/{id}/eligibility/{tierID}", h.CheckEligibility)
	return r
}

func activeSubscription() *model.Subscription {
	return &model.Subscription{
		ID:             "sub-1",
		UserID:         "user-1",
		TierID:         "tier-gold",
		PlanDurationID: "dur-yearly",
		StartDate:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		ExpiryDate:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:         model.SubscriptionStatusActive,
		Revision:       1,
	}
}

// 購読加入が201と購読内容を返すことを検証
func TestSubscriptionHandler_Subscribe_Success(t *testing.T) {
	service := &mockSubscriptionService{
		subscribeFn: func(ctx context.Context, userID, planPricingID string) (*model.Subscription, error) {
			return activeSubscription(), nil
		},
	}
	router := subscriptionTestRouter(service)

	body := `{"user_id":"user-1","plan_pricing_id":"pp-gold-yearly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp subscriptionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "ACTIVE" {
		t.Errorf("status = %q, want ACTIVE", resp.Status)
	}
	if resp.StartDate != "2025-06-15" || resp.ExpiryDate != "2026-06-15" {
		t.Errorf("dates = %s/%s, want 2025-06-15/2026-06-15", resp.StartDate, resp.ExpiryDate)
	}
	if resp.Revision != 1 {
		t.Errorf("revision = %d, want 1", resp.Revision)
	}
}

// user_idまたはplan_pricing_idが空の場合に400が返ることを検証
func TestSubscriptionHandler_Subscribe_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"user_idなし", `{"plan_pricing_id":"pp-1"}`},
		{"plan_pricing_idなし", `{"user_id":"user-1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := subscriptionTestRouter(&mockSubscriptionService{})

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

// 加入条件未達が409に変換されることを検証
func TestSubscriptionHandler_Subscribe_NotEligible(t *testing.T) {
	service := &mockSubscriptionService{
		subscribeFn: func(ctx context.Context, userID, planPricingID string) (*model.Subscription, error) {
			return nil, model.NewNotEligibleError("Gold", 5, 50000)
		},
	}
	router := subscriptionTestRouter(service)

	body := `{"user_id":"user-1","plan_pricing_id":"pp-gold-yearly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}

	var resp apiErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Code != model.ErrCodeNotEligible {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeNotEligible)
	}
}

// 楽観的排他制御の競合が409に変換されることを検証
func TestSubscriptionHandler_Subscribe_ConcurrentModification(t *testing.T) {
	service := &mockSubscriptionService{
		subscribeFn: func(ctx context.Context, userID, planPricingID string) (*model.Subscription, error) {
			return nil, model.NewConcurrentModificationError()
		},
	}
	router := subscriptionTestRouter(service)

	body := `{"user_id":"user-1","plan_pricing_id":"pp-gold-yearly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

// 有効な購読の取得が200を返すことを検証
func TestSubscriptionHandler_GetSubscription_Found(t *testing.T) {
	service := &mockSubscriptionService{
		getActiveFn: func(ctx context.Context, userID string) (*model.Subscription, error) {
			return activeSubscription(), nil
		},
	}
	router := subscriptionTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/subscription", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp subscriptionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.UserID != "user-1" {
		t.Errorf("user_id = %q, want user-1", resp.UserID)
	}
}

// 期限切れの購読の取得で409が返ることを検証
func TestSubscriptionHandler_GetSubscription_Expired(t *testing.T) {
	service := &mockSubscriptionService{
		getActiveFn: func(ctx context.Context, userID string) (*model.Subscription, error) {
			return nil, model.NewSubscriptionExpiredError(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		},
	}
	router := subscriptionTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/subscription", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}

	var resp apiErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Code != model.ErrCodeSubscriptionExpired {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeSubscriptionExpired)
	}
}

// 解約成功で204が返ることを検証
func TestSubscriptionHandler_CancelSubscription_Success(t *testing.T) {
	cancelledUserID := ""
	service := &mockSubscriptionService{
		cancelFn: func(ctx context.Context, userID string) error {
			cancelledUserID = userID
			return nil
		},
	}
	router := subscriptionTestRouter(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/user-1/subscription", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if cancelledUserID != "user-1" {
		t.Errorf("cancelled user = %q, want user-1", cancelledUserID)
	}
}

// 有効な購読がない解約で409が返ることを検証
func TestSubscriptionHandler_CancelSubscription_NoActive(t *testing.T) {
	service := &mockSubscriptionService{
		cancelFn: func(ctx context.Context, userID string) error {
			return model.NewNoActiveSubscriptionError(userID)
		},
	}
	router := subscriptionTestRouter(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/user-1/subscription", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

// 加入条件判定が200と判定結果を返すことを検証
func TestSubscriptionHandler_CheckEligibility(t *testing.T) {
	service := &mockSubscriptionService{
		checkEligibilityFn: func(ctx context.Context, userID, tierID string) (bool, error) {
			return tierID == "tier-silver", nil
		},
	}
	router := subscriptionTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/eligibility/tier-silver", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp eligibilityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Eligible {
		t.Error("eligible = false, want true")
	}
	if resp.TierID != "tier-silver" {
		t.Errorf("tier_id = %q, want tier-silver", resp.TierID)
	}
}

// 存在しないティアの判定で404が返ることを検証
func TestSubscriptionHandler_CheckEligibility_TierNotFound(t *testing.T) {
	service := &mockSubscriptionService{
		checkEligibilityFn: func(ctx context.Context, userID, tierID string) (bool, error) {
			return false, model.NewTierNotFoundError(tierID)
		},
	}
	router := subscriptionTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/eligibility/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
