// Package eligibility はティア加入条件の判定を提供する。
package eligibility

import "github.com/hitoshi/memberclub/internal/model"

// IsEligible はユーザーがティアの加入条件を満たすかを判定する。
// 注文数と累計購入額のどちらか一方を満たせば加入可能（OR条件）。
// しきい値は境界値を含む（ちょうど到達した場合も条件達成とみなす）。
// MinOrders=0 かつ MinOrderValueCents=0 のティアは全ユーザーが無条件に満たす。
// 副作用なし。引数の解決は呼び出し側の責務とする。
func IsEligible(user *model.User, tier *model.Tier) bool {
	meetsOrders := user.TotalOrders >= tier.MinOrders
	meetsSpend := user.TotalSpentCents >= tier.MinOrderValueCents
	return meetsOrders || meetsSpend
}
