// Package model はドメインモデルを定義する。
package model

import "time"

// SubscriptionStatus は購読の状態を表す。
type SubscriptionStatus string

const (
	// SubscriptionStatusActive は有効な購読状態。
	SubscriptionStatusActive SubscriptionStatus = "ACTIVE"
	// SubscriptionStatusExpired は有効期限切れの購読状態。
	SubscriptionStatusExpired SubscriptionStatus = "EXPIRED"
	// SubscriptionStatusCancelled は解約済みの購読状態。
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription はユーザーごとの購読スロットを表す。
// 1ユーザーにつき最大1行のみ存在し、アップグレード/ダウングレード/再加入は
// 常に同じ行を上書きする（行の削除・差し替えは行わない）。
// Revision は楽観的排他制御用の単調増加カウンタで、
// ストアが書き込み時に比較・インクリメントする。
type Subscription struct {
	ID             string
	UserID         string
	TierID         string
	PlanDurationID string
	StartDate      time.Time
	ExpiryDate     time.Time
	Status         SubscriptionStatus
	Revision       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
