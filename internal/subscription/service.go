// Package subscription は購読ライフサイクルのドメインロジックを提供する。
// 状態遷移は {none} → ACTIVE → {EXPIRED | CANCELLED} のみで、
// 終端状態からの再加入は同じ行をACTIVEに上書きして行う。
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/memberclub/internal/eligibility"
	"github.com/hitoshi/memberclub/internal/metrics"
	"github.com/hitoshi/memberclub/internal/model"
	"github.com/hitoshi/memberclub/internal/repository"
)

// Service は購読ライフサイクルのサービス層。
// 各操作は1回の読み取り・判断・書き込みで完結し、同一ユーザーの購読行への
// 競合書き込みはリポジトリの楽観的排他制御で高々1つに制限される。
type Service struct {
	subRepo     repository.SubscriptionRepository
	userRepo    repository.UserRepository
	catalogRepo repository.CatalogRepository
	metrics     metrics.Recorder

	// now はテストから現在時刻を差し替えるためのフック。
	now func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnil可（メトリクス収集なしで動作する）。
func NewService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	catalogRepo repository.CatalogRepository,
	recorder metrics.Recorder,
) *Service {
	return &Service{
		subRepo:     subRepo,
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		metrics:     recorder,
		now:         time.Now,
	}
}

// Subscribe はユーザーをプランに加入させる。
// 新規加入・アップグレード・ダウングレードをすべて扱う。
// 既存の購読行がある場合は状態に関わらず同じ行を上書きし、新しい行は作らない。
func (s *Service) Subscribe(ctx context.Context, userID, planPricingID string) (*model.Subscription, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	pricing, err := s.catalogRepo.FindPlanPricingByID(ctx, planPricingID)
	if err != nil {
		return nil, fmt.Errorf("プラン価格の取得に失敗しました: %w", err)
	}
	if pricing == nil {
		return nil, model.NewPlanPricingNotFoundError(planPricingID)
	}

	tier, err := s.catalogRepo.FindTierByID(ctx, pricing.TierID)
	if err != nil {
		return nil, fmt.Errorf("ティアの取得に失敗しました: %w", err)
	}
	if tier == nil {
		return nil, model.NewTierNotFoundError(pricing.TierID)
	}

	duration, err := s.catalogRepo.FindPlanDurationByID(ctx, pricing.PlanDurationID)
	if err != nil {
		return nil, fmt.Errorf("契約期間の取得に失敗しました: %w", err)
	}
	if duration == nil {
		return nil, fmt.Errorf("プラン価格 %s が参照する契約期間 %s が存在しません",
			pricing.ID, pricing.PlanDurationID)
	}

	// 加入条件の判定。条件を満たさない場合はストアを一切変更せずに失敗する。
	eligible := eligibility.IsEligible(user, tier)
	if s.metrics != nil {
		s.metrics.RecordEligibilityCheck(eligible)
	}
	if !eligible {
		return nil, model.NewNotEligibleError(tier.Name, tier.MinOrders, tier.MinOrderValueCents)
	}

	startDate := s.today()
	expiryDate := startDate.AddDate(0, 0, duration.DurationInDays)

	existing, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("購読の取得に失敗しました: %w", err)
	}

	if existing != nil {
		slog.Info("購読を上書きします",
			slog.String("subscription_id", existing.ID),
			slog.String("user_id", userID),
			slog.String("from_tier_id", existing.TierID),
			slog.String("to_tier_id", tier.ID),
		)

		existing.TierID = tier.ID
		existing.PlanDurationID = duration.ID
		existing.StartDate = startDate
		existing.ExpiryDate = expiryDate
		existing.Status = model.SubscriptionStatusActive

		if err := s.subRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	slog.Info("購読を新規作成します",
		slog.String("user_id", userID),
		slog.String("tier_id", tier.ID),
		slog.String("plan_pricing_id", planPricingID),
	)

	nowUTC := s.now().UTC()
	sub := &model.Subscription{
		ID:             uuid.New().String(),
		UserID:         userID,
		TierID:         tier.ID,
		PlanDurationID: duration.ID,
		StartDate:      startDate,
		ExpiryDate:     expiryDate,
		Status:         model.SubscriptionStatusActive,
		CreatedAt:      nowUTC,
		UpdatedAt:      nowUTC,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordSubscriptionCreated()
	}
	return sub, nil
}

// Cancel はユーザーの有効な購読を解約する。
// 有効な購読がない場合はNO_ACTIVE_SUBSCRIPTIONを返す。
// 解約済みの購読への再解約も同様に失敗する（冪等ではない）。
func (s *Service) Cancel(ctx context.Context, userID string) error {
	sub, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("購読の取得に失敗しました: %w", err)
	}
	if sub == nil || sub.Status != model.SubscriptionStatusActive {
		return model.NewNoActiveSubscriptionError(userID)
	}

	slog.Info("購読を解約します",
		slog.String("subscription_id", sub.ID),
		slog.String("user_id", userID),
	)

	sub.Status = model.SubscriptionStatusCancelled
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordSubscriptionCancelled()
	}
	return nil
}

// GetActive はユーザーの有効な購読を返す。
// 有効期限が今日より前の場合は遅延失効を行う: EXPIREDを永続化した上で
// SUBSCRIPTION_EXPIREDを返す（失効の書き込みは呼び出しが失敗しても残る）。
func (s *Service) GetActive(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("購読の取得に失敗しました: %w", err)
	}
	if sub == nil || sub.Status != model.SubscriptionStatusActive {
		return nil, model.NewNoActiveSubscriptionError(userID)
	}

	if sub.ExpiryDate.Before(s.today()) {
		slog.Warn("有効期限切れの購読がACTIVEのまま残っていました。EXPIREDに更新します。",
			slog.String("subscription_id", sub.ID),
			slog.String("expiry_date", sub.ExpiryDate.Format("2006-01-02")),
		)

		sub.Status = model.SubscriptionStatusExpired
		if err := s.subRepo.Update(ctx, sub); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RecordSubscriptionExpired()
		}
		return nil, model.NewSubscriptionExpiredError(sub.ExpiryDate)
	}

	return sub, nil
}

// CheckEligibility はユーザーが指定ティアの加入条件を満たすかを返す。
// ユーザーまたはティアが存在しない場合はNotFound系のAPIErrorを返す。
func (s *Service) CheckEligibility(ctx context.Context, userID, tierID string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return false, model.NewUserNotFoundError(userID)
	}

	tier, err := s.catalogRepo.FindTierByID(ctx, tierID)
	if err != nil {
		return false, fmt.Errorf("ティアの取得に失敗しました: %w", err)
	}
	if tier == nil {
		return false, model.NewTierNotFoundError(tierID)
	}

	eligible := eligibility.IsEligible(user, tier)
	if s.metrics != nil {
		s.metrics.RecordEligibilityCheck(eligible)
	}
	return eligible, nil
}

// today は現在日付をUTCの0時に切り詰めて返す。
// 購読の開始日・有効期限は日付単位で扱う。
func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
