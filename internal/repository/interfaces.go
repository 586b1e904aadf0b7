// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/memberclub/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが重複する場合はEMAIL_CONFLICTのAPIErrorを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// List は全ユーザーを登録日時の昇順で返す。
	List(ctx context.Context) ([]*model.User, error)
}

// CatalogRepository はティア・期間・価格の参照データの永続化インターフェース。
// Create系メソッドはシード投入専用で、通常のリクエスト処理からは呼ばない。
type CatalogRepository interface {
	// ListTiers は全ティアを加入条件の緩い順に返す。
	ListTiers(ctx context.Context) ([]*model.Tier, error)

	// FindTierByID は指定IDのティアを取得する。見つからない場合はnilを返す。
	FindTierByID(ctx context.Context, id string) (*model.Tier, error)

	// FindPlanDurationByID は指定IDの契約期間を取得する。見つからない場合はnilを返す。
	FindPlanDurationByID(ctx context.Context, id string) (*model.PlanDuration, error)

	// FindPlanPricingByID は指定IDのプラン価格を取得する。見つからない場合はnilを返す。
	FindPlanPricingByID(ctx context.Context, id string) (*model.PlanPricing, error)

	// ListPlans は全プラン価格をティア・期間情報と結合して返す。
	ListPlans(ctx context.Context) ([]PlanListing, error)

	// CountTiers は登録済みティア数を返す。シードの冪等性判定に使用する。
	CountTiers(ctx context.Context) (int, error)

	// CreateTier はティアを作成する。
	CreateTier(ctx context.Context, tier *model.Tier) error

	// CreatePlanDuration は契約期間を作成する。
	CreatePlanDuration(ctx context.Context, duration *model.PlanDuration) error

	// CreatePlanPricing はプラン価格を作成する。
	CreatePlanPricing(ctx context.Context, pricing *model.PlanPricing) error
}

// SubscriptionRepository は購読データの永続化インターフェース。
type SubscriptionRepository interface {
	// FindByUserID はユーザーの購読スロットを状態に関わらず取得する。
	// 存在しない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Subscription, error)

	// Create は購読を新規作成する。Revisionは1で初期化される。
	Create(ctx context.Context, sub *model.Subscription) error

	// Update は購読を楽観的排他制御付きで更新する。
	// 保持しているRevisionとストア上のRevisionを比較し、一致した場合のみ
	// 全フィールドを書き込んでRevisionをインクリメントする。
	// 競合した場合はCONCURRENT_MODIFICATIONのAPIErrorを返す。
	Update(ctx context.Context, sub *model.Subscription) error
}

// PlanListing はプラン価格をティア・期間情報と結合した構造体。
type PlanListing struct {
	model.PlanPricing
	TierName       string
	DurationName   string
	DurationInDays int
}
