// Package seed は初期カタログデータの投入を提供する。
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/memberclub/internal/model"
	"github.com/hitoshi/memberclub/internal/repository"
)

// Seeder はティア・契約期間・プラン価格の初期データを投入する。
type Seeder struct {
	catalogRepo repository.CatalogRepository
}

// NewSeeder はSeederの新しいインスタンスを生成する。
func NewSeeder(catalogRepo repository.CatalogRepository) *Seeder {
	return &Seeder{catalogRepo: catalogRepo}
}

// tierSeed は投入するティアの定義。
type tierSeed struct {
	name               string
	minOrders          int
	minOrderValueCents int64
	benefits           map[string]string
	// priceCents は契約期間順（Monthly, Quarterly, Yearly）の価格
	priceCents [3]int64
}

// Run はカタログの初期データを投入する。
// 既にティアが存在する場合は何もしない（冪等）。
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.catalogRepo.CountTiers(ctx)
	if err != nil {
		return fmt.Errorf("ティア数の取得に失敗しました: %w", err)
	}
	if count > 0 {
		slog.Info("カタログは投入済みのためスキップします", slog.Int("tier_count", count))
		return nil
	}

	durations := []*model.PlanDuration{
		{ID: uuid.New().String(), Name: "Monthly", DurationInDays: 30},
		{ID: uuid.New().String(), Name: "Quarterly", DurationInDays: 90},
		{ID: uuid.New().String(), Name: "Yearly", DurationInDays: 365},
	}
	for _, d := range durations {
		if err := s.catalogRepo.CreatePlanDuration(ctx, d); err != nil {
			return fmt.Errorf("契約期間 %s の投入に失敗しました: %w", d.Name, err)
		}
	}

	tiers := []tierSeed{
		{
			name:               "Silver",
			minOrders:          0,
			minOrderValueCents: 0,
			benefits: map[string]string{
				"FREE_DELIVERY":    "false",
				"DISCOUNT_PERCENT": "5",
			},
			priceCents: [3]int64{999, 2499, 9999},
		},
		{
			name:               "Gold",
			minOrders:          5,
			minOrderValueCents: 50000,
			benefits: map[string]string{
				"FREE_DELIVERY":      "true",
				"DISCOUNT_PERCENT":   "10",
				"EARLY_ACCESS_HOURS": "12",
			},
			priceCents: [3]int64{1999, 4999, 17999},
		},
		{
			name:               "Platinum",
			minOrders:          20,
			minOrderValueCents: 200000,
			benefits: map[string]string{
				"FREE_DELIVERY":      "true",
				"DISCOUNT_PERCENT":   "20",
				"EARLY_ACCESS_HOURS": "24",
				"PRIORITY_SUPPORT":   "true",
			},
			priceCents: [3]int64{4999, 12999, 49999},
		},
	}

	for _, ts := range tiers {
		tier := &model.Tier{
			ID:                 uuid.New().String(),
			Name:               ts.name,
			MinOrders:          ts.minOrders,
			MinOrderValueCents: ts.minOrderValueCents,
			Benefits:           ts.benefits,
		}
		if err := s.catalogRepo.CreateTier(ctx, tier); err != nil {
			return fmt.Errorf("ティア %s の投入に失敗しました: %w", ts.name, err)
		}

		for i, d := range durations {
			pricing := &model.PlanPricing{
				ID:             uuid.New().String(),
				TierID:         tier.ID,
				PlanDurationID: d.ID,
				PriceCents:     ts.priceCents[i],
			}
			if err := s.catalogRepo.CreatePlanPricing(ctx, pricing); err != nil {
				return fmt.Errorf("プラン価格 %s/%s の投入に失敗しました: %w", ts.name, d.Name, err)
			}
		}
	}

	slog.Info("カタログの初期データを投入しました",
		slog.Int("tiers", len(tiers)),
		slog.Int("durations", len(durations)),
		slog.Int("pricings", len(tiers)*len(durations)),
	)
	return nil
}
