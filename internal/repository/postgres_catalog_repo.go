package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/memberclub/internal/model"
)

// PostgresCatalogRepo はPostgreSQLを使用したカタログリポジトリ。
// ティア・契約期間・プラン価格の参照データを扱う。
type PostgresCatalogRepo struct {
	db *sql.DB
}

// NewPostgresCatalogRepo はPostgresCatalogRepoを生成する。
func NewPostgresCatalogRepo(db *sql.DB) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{db: db}
}

// ListTiers は全ティアを加入条件の緩い順に返す。
func (r *PostgresCatalogRepo) ListTiers(ctx context.Context) ([]*model.Tier, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, min_orders, min_order_value_cents, benefits
		 FROM tiers ORDER BY min_orders, min_order_value_cents`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers: %w", err)
	}
	defer rows.Close()

	var tiers []*model.Tier
	for rows.Next() {
		tier, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tiers: %w", err)
	}

	return tiers, nil
}

// FindTierByID は指定IDのティアを取得する。見つからない場合はnilを返す。
func (r *PostgresCatalogRepo) FindTierByID(ctx context.Context, id string) (*model.Tier, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, min_orders, min_order_value_cents, benefits
		 FROM tiers WHERE id = $1`,
		id,
	)
	tier, err := scanTier(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tier by ID: %w", err)
	}
	return tier, nil
}

// FindPlanDurationByID は指定IDの契約期間を取得する。見つからない場合はnilを返す。
func (r *PostgresCatalogRepo) FindPlanDurationByID(ctx context.Context, id string) (*model.PlanDuration, error) {
	d := &model.PlanDuration{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, duration_in_days FROM plan_durations WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Name, &d.DurationInDays)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan duration by ID: %w", err)
	}

	return d, nil
}

// FindPlanPricingByID は指定IDのプラン価格を取得する。見つからない場合はnilを返す。
func (r *PostgresCatalogRepo) FindPlanPricingByID(ctx context.Context, id string) (*model.PlanPricing, error) {
	p := &model.PlanPricing{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tier_id, plan_duration_id, price_cents FROM plan_pricings WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.TierID, &p.PlanDurationID, &p.PriceCents)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan pricing by ID: %w", err)
	}

	return p, nil
}

// ListPlans は全プラン価格をティア・期間情報と結合して返す。
// ティアの加入条件の緩い順、期間の短い順に並べる。
func (r *PostgresCatalogRepo) ListPlans(ctx context.Context) ([]PlanListing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.tier_id, p.plan_duration_id, p.price_cents,
		        t.name, d.name, d.duration_in_days
		 FROM plan_pricings p
		 JOIN tiers t ON t.id = p.tier_id
		 JOIN plan_durations d ON d.id = p.plan_duration_id
		 ORDER BY t.min_orders, t.min_order_value_cents, d.duration_in_days`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []PlanListing
	for rows.Next() {
		var pl PlanListing
		if err := rows.Scan(&pl.ID, &pl.TierID, &pl.PlanDurationID, &pl.PriceCents,
			&pl.TierName, &pl.DurationName, &pl.DurationInDays); err != nil {
			return nil, fmt.Errorf("failed to scan plan listing: %w", err)
		}
		plans = append(plans, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}

// CountTiers は登録済みティア数を返す。
func (r *PostgresCatalogRepo) CountTiers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tiers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tiers: %w", err)
	}
	return count, nil
}

// CreateTier はティアを作成する。BenefitsはJSONBとして保存する。
func (r *PostgresCatalogRepo) CreateTier(ctx context.Context, tier *model.Tier) error {
	benefits, err := marshalBenefits(tier.Benefits)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tiers (id, name, min_orders, min_order_value_cents, benefits)
		 VALUES ($1, $2, $3, $4, $5)`,
		tier.ID, tier.Name, tier.MinOrders, tier.MinOrderValueCents, benefits,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tier: %w", err)
	}
	return nil
}

// CreatePlanDuration は契約期間を作成する。
func (r *PostgresCatalogRepo) CreatePlanDuration(ctx context.Context, duration *model.PlanDuration) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO plan_durations (id, name, duration_in_days) VALUES ($1, $2, $3)`,
		duration.ID, duration.Name, duration.DurationInDays,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan duration: %w", err)
	}
	return nil
}

// CreatePlanPricing はプラン価格を作成する。
func (r *PostgresCatalogRepo) CreatePlanPricing(ctx context.Context, pricing *model.PlanPricing) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO plan_pricings (id, tier_id, plan_duration_id, price_cents)
		 VALUES ($1, $2, $3, $4)`,
		pricing.ID, pricing.TierID, pricing.PlanDurationID, pricing.PriceCents,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan pricing: %w", err)
	}
	return nil
}

// rowScanner はsql.Rowとsql.Rowsの両方を受け取るためのインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTier は1行分のティアを読み取り、benefitsのJSONBをマップに復元する。
func scanTier(row rowScanner) (*model.Tier, error) {
	tier := &model.Tier{}
	var benefitsRaw []byte
	if err := row.Scan(&tier.ID, &tier.Name, &tier.MinOrders,
		&tier.MinOrderValueCents, &benefitsRaw); err != nil {
		return nil, err
	}
	if err := unmarshalBenefits(benefitsRaw, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// marshalBenefits は特典マップをJSONBカラム用のバイト列に変換する。
// nilマップは空オブジェクトとして保存する。
func marshalBenefits(benefits map[string]string) ([]byte, error) {
	if benefits == nil {
		benefits = map[string]string{}
	}
	data, err := json.Marshal(benefits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal benefits: %w", err)
	}
	return data, nil
}

// unmarshalBenefits はJSONBカラムのバイト列を特典マップに復元する。
func unmarshalBenefits(raw []byte, tier *model.Tier) error {
	tier.Benefits = map[string]string{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &tier.Benefits); err != nil {
		return fmt.Errorf("failed to unmarshal benefits: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CatalogRepository = (*PostgresCatalogRepo)(nil)
