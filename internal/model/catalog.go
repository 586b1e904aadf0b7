// Package model はドメインモデルを定義する。
package model

// Tier は会員ティア（Silver/Gold/Platinum等）を表す。
// シード投入後はイミュータブルな参照データとして扱う。
type Tier struct {
	ID                 string
	Name               string
	MinOrders          int
	MinOrderValueCents int64
	// Benefits はキー集合が固定でない自由形式の特典マップ。
	// 呼び出し側はキーを拡張可能なものとして扱うこと。
	Benefits map[string]string
}

// PlanDuration は契約期間（Monthly/Quarterly/Yearly等）を表す。
type PlanDuration struct {
	ID             string
	Name           string
	DurationInDays int
}

// PlanPricing はティアと期間の組み合わせに対する価格を表す。
// (TierID, PlanDurationID) の組は一意。
type PlanPricing struct {
	ID             string
	TierID         string
	PlanDurationID string
	PriceCents     int64
}
