package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/memberclub/internal/model"
	"github.com/hitoshi/memberclub/internal/repository"
)

type mockCatalogService struct {
	listTiersFn func(ctx context.Context) ([]*model.Tier, error)
	listPlansFn func(ctx context.Context) ([]repository.PlanListing, error)
}

func (m *mockCatalogService) ListTiers(ctx context.Context) ([]*model.Tier, error) {
	if m.listTiersFn != nil {
		return m.listTiersFn(ctx)
	}
	return nil, nil
}
func (m *mockCatalogService) ListPlans(ctx context.Context) ([]repository.PlanListing, error) {
	if m.listPlansFn != nil {
		return m.listPlansFn(ctx)
	}
	return nil, nil
}

func catalogTestRouter(service CatalogServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewCatalogHandler(service)
	r.Get("/api/tiers", h.ListTiers)
	r.Get("/api/plans", h.ListPlans)
	return r
}

// ティア一覧が200と加入条件・特典を返すことを検証
func TestCatalogHandler_ListTiers(t *testing.T) {
	service := &mockCatalogService{
		listTiersFn: func(ctx context.Context) ([]*model.Tier, error) {
			return []*model.Tier{
				{
					ID:                 "tier-gold",
					Name:               "Gold",
					MinOrders:          5,
					MinOrderValueCents: 50000,
					Benefits:           map[string]string{"FREE_DELIVERY": "true"},
				},
			}, nil
		},
	}
	router := catalogTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/tiers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []tierResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("len(resp) = %d, want 1", len(resp))
	}
	if resp[0].Name != "Gold" || resp[0].MinOrderValue != "$500.00" {
		t.Errorf("unexpected tier response: %+v", resp[0])
	}
	if resp[0].Benefits["FREE_DELIVERY"] != "true" {
		t.Errorf("benefits = %v, want FREE_DELIVERY=true", resp[0].Benefits)
	}
}

// プラン一覧が200とティア・期間・価格を返すことを検証
func TestCatalogHandler_ListPlans(t *testing.T) {
	service := &mockCatalogService{
		listPlansFn: func(ctx context.Context) ([]repository.PlanListing, error) {
			return []repository.PlanListing{
				{
					PlanPricing: model.PlanPricing{
						ID:             "pp-1",
						TierID:         "tier-gold",
						PlanDurationID: "dur-yearly",
						PriceCents:     17999,
					},
					TierName:       "Gold",
					DurationName:   "Yearly",
					DurationInDays: 365,
				},
			}, nil
		},
	}
	router := catalogTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []planResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("len(resp) = %d, want 1", len(resp))
	}
	if resp[0].TierName != "Gold" || resp[0].Price != "$179.99" || resp[0].DurationInDays != 365 {
		t.Errorf("unexpected plan response: %+v", resp[0])
	}
}

// サービス層の予期しないエラーで500が返ることを検証
func TestCatalogHandler_ListTiers_InternalError(t *testing.T) {
	service := &mockCatalogService{
		listTiersFn: func(ctx context.Context) ([]*model.Tier, error) {
			return nil, errors.New("db down")
		},
	}
	router := catalogTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/tiers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
