package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/memberclub/internal/model"
)

// SubscriptionServiceInterface は購読ハンドラーが必要とするサービスインターフェース。
type SubscriptionServiceInterface interface {
	// Subscribe はユーザーをプランに加入させる（新規・アップグレード・ダウングレード共通）。
	Subscribe(ctx context.Context, userID, planPricingID string) (*model.Subscription, error)
	// Cancel はユーザーの有効な購読を解約する。
	Cancel(ctx context.Context, userID string) error
	// GetActive はユーザーの有効な購読を返す。期限切れの場合は遅延失効を行う。
	GetActive(ctx context.Context, userID string) (*model.Subscription, error)
	// CheckEligibility はユーザーが指定ティアの加入条件を満たすかを返す。
	CheckEligibility(ctx context.Context, userID, tierID string) (bool, error)
}

// SubscriptionHandler は購読ライフサイクルのHTTPハンドラー。
type SubscriptionHandler struct {
	service SubscriptionServiceInterface
}

// NewSubscriptionHandler はSubscriptionHandlerを生成する。
func NewSubscriptionHandler(service SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
	}
}

// subscribeRequest は購読加入リクエストのボディ。
type subscribeRequest struct {
	UserID        string `json:"user_id"`
	PlanPricingID string `json:"plan_pricing_id"`
}

// subscriptionResponse は購読情報のAPIレスポンス。日付は日単位で扱う。
type subscriptionResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	TierID         string `json:"tier_id"`
	PlanDurationID string `json:"plan_duration_id"`
	StartDate      string `json:"start_date"`
	ExpiryDate     string `json:"expiry_date"`
	Status         string `json:"status"`
	Revision       int64  `json:"revision"`
}

// eligibilityResponse は加入条件判定のAPIレスポンス。
type eligibilityResponse struct {
	UserID   string `json:"user_id"`
	TierID   string `json:"tier_id"`
	Eligible bool   `json:"eligible"`
}

// toSubscriptionResponse はmodel.SubscriptionからAPIレスポンスに変換する。
func toSubscriptionResponse(sub *model.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:             sub.ID,
		UserID:         sub.UserID,
		TierID:         sub.TierID,
		PlanDurationID: sub.PlanDurationID,
		StartDate:      sub.StartDate.Format("2006-01-02"),
		ExpiryDate:     sub.ExpiryDate.Format("2006-01-02"),
		Status:         string(sub.Status),
		Revision:       sub.Revision,
	}
}

// Subscribe はユーザーをプランに加入させる。
// POST /api/subscriptions
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if req.UserID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("user_idが空です"))
		return
	}
	if req.PlanPricingID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("plan_pricing_idが空です"))
		return
	}

	sub, err := h.service.Subscribe(r.Context(), req.UserID, req.PlanPricingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toSubscriptionResponse(sub))
}

// GetSubscription はユーザーの有効な購読を取得する。
// GET /api/users/{id}/subscription
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	sub, err := h.service.GetActive(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSubscriptionResponse(sub))
}

// CancelSubscription はユーザーの有効な購読を解約する。
// DELETE /api/users/{id}/subscription
func (h *SubscriptionHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if err := h.service.Cancel(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckEligibility はユーザーが指定ティアの加入条件を満たすかを判定する。
// GET /api/users/{id}/eligibility/{tierID}
func (h *SubscriptionHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	tierID := chi.URLParam(r, "tierID")

	eligible, err := h.service.CheckEligibility(r.Context(), userID, tierID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eligibilityResponse{
		UserID:   userID,
		TierID:   tierID,
		Eligible: eligible,
	})
}
