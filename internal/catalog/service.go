// Package catalog はティア・プランカタログの参照ロジックを提供する。
// カタログは読み取り専用で、投入はシード処理が行う。
package catalog

import (
	"context"
	"fmt"

	"github.com/hitoshi/memberclub/internal/model"
	"github.com/hitoshi/memberclub/internal/repository"
)

// Service はカタログ参照のサービス層。
type Service struct {
	catalogRepo repository.CatalogRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(catalogRepo repository.CatalogRepository) *Service {
	return &Service{catalogRepo: catalogRepo}
}

// ListTiers は全ティアを特典マップ付きで返す。
func (s *Service) ListTiers(ctx context.Context) ([]*model.Tier, error) {
	tiers, err := s.catalogRepo.ListTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("ティア一覧の取得に失敗しました: %w", err)
	}
	return tiers, nil
}

// ListPlans は全プラン価格をティア・期間情報と結合して返す。
func (s *Service) ListPlans(ctx context.Context) ([]repository.PlanListing, error) {
	plans, err := s.catalogRepo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("プラン一覧の取得に失敗しました: %w", err)
	}
	return plans, nil
}

// GetTier は指定IDのティアを取得する。
// 見つからない場合はTIER_NOT_FOUNDのAPIErrorを返す。
func (s *Service) GetTier(ctx context.Context, tierID string) (*model.Tier, error) {
	tier, err := s.catalogRepo.FindTierByID(ctx, tierID)
	if err != nil {
		return nil, fmt.Errorf("ティアの取得に失敗しました: %w", err)
	}
	if tier == nil {
		return nil, model.NewTierNotFoundError(tierID)
	}
	return tier, nil
}
