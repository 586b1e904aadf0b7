package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/memberclub/internal/model"
)

// PostgresSubscriptionRepo はPostgreSQLを使用した購読リポジトリ。
// 更新はすべてrevisionカラムの比較・インクリメントによる楽観的排他制御で行う。
type PostgresSubscriptionRepo struct {
	db *sql.DB
}

// NewPostgresSubscriptionRepo はPostgresSubscriptionRepoを生成する。
func NewPostgresSubscriptionRepo(db *sql.DB) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{db: db}
}

// FindByUserID はユーザーの購読スロットを状態に関わらず取得する。
// 存在しない場合はnilを返す。user_idには一意制約があるため最大1行。
func (r *PostgresSubscriptionRepo) FindByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	sub := &model.Subscription{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, tier_id, plan_duration_id, start_date, expiry_date,
		        status, revision, created_at, updated_at
		 FROM subscriptions WHERE user_id = $1`,
		userID,
	).Scan(&sub.ID, &sub.UserID, &sub.TierID, &sub.PlanDurationID,
		&sub.StartDate, &sub.ExpiryDate, &sub.Status, &sub.Revision,
		&sub.CreatedAt, &sub.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription by user ID: %w", err)
	}

	return sub, nil
}

// Create は購読を新規作成する。Revisionは1で初期化される。
// 同一ユーザーへの初回加入が競合した場合、敗者はuser_idの一意制約違反になるため、
// CONCURRENT_MODIFICATIONのAPIErrorに変換して返す。
func (r *PostgresSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	sub.Revision = 1
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions
		 (id, user_id, tier_id, plan_duration_id, start_date, expiry_date,
		  status, revision, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sub.ID, sub.UserID, sub.TierID, sub.PlanDurationID,
		sub.StartDate, sub.ExpiryDate, sub.Status, sub.Revision,
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewConcurrentModificationError()
		}
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

// Update は購読を楽観的排他制御付きで更新する。
// WHERE句でrevisionを比較し、一致した行のみrevisionをインクリメントして書き込む。
// 更新対象行が0行の場合は他の書き込みに先を越されたとみなし、
// CONCURRENT_MODIFICATIONのAPIErrorを返す。
func (r *PostgresSubscriptionRepo) Update(ctx context.Context, sub *model.Subscription) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions
		 SET tier_id = $1, plan_duration_id = $2, start_date = $3, expiry_date = $4,
		     status = $5, revision = revision + 1, updated_at = $6
		 WHERE id = $7 AND revision = $8`,
		sub.TierID, sub.PlanDurationID, sub.StartDate, sub.ExpiryDate,
		sub.Status, now, sub.ID, sub.Revision,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewConcurrentModificationError()
	}

	sub.Revision++
	sub.UpdatedAt = now
	return nil
}

// compile-time interface check
var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
