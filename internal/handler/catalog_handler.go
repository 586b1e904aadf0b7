package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/memberclub/internal/model"
	"github.com/hitoshi/memberclub/internal/repository"
)

// CatalogServiceInterface はカタログハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	// ListTiers は全ティアの一覧を返す。
	ListTiers(ctx context.Context) ([]*model.Tier, error)
	// ListPlans はティア・契約期間と結合した全プランの一覧を返す。
	ListPlans(ctx context.Context) ([]repository.PlanListing, error)
}

// CatalogHandler はティア・プランカタログのHTTPハンドラー。
type CatalogHandler struct {
	service CatalogServiceInterface
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// tierResponse はティア情報のAPIレスポンス。
type tierResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	MinOrders          int               `json:"min_orders"`
	MinOrderValueCents int64             `json:"min_order_value_cents"`
	MinOrderValue      string            `json:"min_order_value"`
	Benefits           map[string]string `json:"benefits"`
}

// planResponse はプラン情報のAPIレスポンス。価格はセント単位と表示用文字列の両方を含む。
type planResponse struct {
	ID             string `json:"id"`
	TierID         string `json:"tier_id"`
	TierName       string `json:"tier_name"`
	PlanDurationID string `json:"plan_duration_id"`
	DurationName   string `json:"duration_name"`
	DurationInDays int    `json:"duration_in_days"`
	PriceCents     int64  `json:"price_cents"`
	Price          string `json:"price"`
}

// ListTiers は全ティアの一覧を取得する。
// GET /api/tiers
func (h *CatalogHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.service.ListTiers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]tierResponse, 0, len(tiers))
	for _, tier := range tiers {
		resp = append(resp, tierResponse{
			ID:                 tier.ID,
			Name:               tier.Name,
			MinOrders:          tier.MinOrders,
			MinOrderValueCents: tier.MinOrderValueCents,
			MinOrderValue:      model.FormatCents(tier.MinOrderValueCents),
			Benefits:           tier.Benefits,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListPlans は全プランの一覧を取得する。
// GET /api/plans
func (h *CatalogHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, planResponse{
			ID:             p.ID,
			TierID:         p.TierID,
			TierName:       p.TierName,
			PlanDurationID: p.PlanDurationID,
			DurationName:   p.DurationName,
			DurationInDays: p.DurationInDays,
			PriceCents:     p.PriceCents,
			Price:          model.FormatCents(p.PriceCents),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
