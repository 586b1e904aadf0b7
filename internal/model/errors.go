// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, user, catalog, subscription, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound           = "USER_NOT_FOUND"
	ErrCodeTierNotFound           = "TIER_NOT_FOUND"
	ErrCodePlanPricingNotFound    = "PLAN_PRICING_NOT_FOUND"
	ErrCodeNotEligible            = "NOT_ELIGIBLE"
	ErrCodeNoActiveSubscription   = "NO_ACTIVE_SUBSCRIPTION"
	ErrCodeSubscriptionExpired    = "SUBSCRIPTION_EXPIRED"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeEmailConflict          = "EMAIL_CONFLICT"
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeInvalidRequest         = "INVALID_REQUEST"
)

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "user",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewTierNotFoundError はティア未検出エラーを生成する。
func NewTierNotFoundError(tierID string) *APIError {
	return &APIError{
		Code:     ErrCodeTierNotFound,
		Message:  fmt.Sprintf("指定されたティアが見つかりません: %s", tierID),
		Category: "catalog",
		Action:   "ティアIDを確認してください。",
	}
}

// NewPlanPricingNotFoundError はプラン価格未検出エラーを生成する。
func NewPlanPricingNotFoundError(planPricingID string) *APIError {
	return &APIError{
		Code:     ErrCodePlanPricingNotFound,
		Message:  fmt.Sprintf("指定されたプランが見つかりません: %s", planPricingID),
		Category: "catalog",
		Action:   "プラン一覧からプランIDを確認してください。",
	}
}

// NewNotEligibleError は加入条件未達エラーを生成する。
// 対象ティア名と未達条件の説明を含む。
func NewNotEligibleError(tierName string, minOrders int, minOrderValueCents int64) *APIError {
	return &APIError{
		Code: ErrCodeNotEligible,
		Message: fmt.Sprintf("ティア %s の加入条件を満たしていません: 注文数%d回以上または累計購入額%s以上が必要です。",
			tierName, minOrders, FormatCents(minOrderValueCents)),
		Category: "subscription",
		Action:   "注文実績を積んでから再度お申し込みください。",
	}
}

// NewNoActiveSubscriptionError は有効な購読が存在しない場合のエラーを生成する。
func NewNoActiveSubscriptionError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeNoActiveSubscription,
		Message:  fmt.Sprintf("有効な購読が見つかりません: %s", userID),
		Category: "subscription",
		Action:   "プランに加入してから再度お試しください。",
	}
}

// NewSubscriptionExpiredError は購読の有効期限切れエラーを生成する。
func NewSubscriptionExpiredError(expiryDate time.Time) *APIError {
	return &APIError{
		Code:     ErrCodeSubscriptionExpired,
		Message:  fmt.Sprintf("購読は %s に有効期限が切れています。", expiryDate.Format("2006-01-02")),
		Category: "subscription",
		Action:   "プランに再加入してください。",
	}
}

// NewConcurrentModificationError は楽観的排他制御の競合エラーを生成する。
// 呼び出し側はリトライ可能。
func NewConcurrentModificationError() *APIError {
	return &APIError{
		Code:     ErrCodeConcurrentModification,
		Message:  "購読が他のリクエストによって同時に更新されました。",
		Category: "subscription",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewEmailConflictError はメールアドレス重複エラーを生成する。
func NewEmailConflictError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailConflict,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "user",
		Action:   "別のメールアドレスで登録してください。",
	}
}

// NewValidationError は入力値不正エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidRequestError はリクエストボディ解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// FormatCents はセント単位の金額を "$12.34" 形式の文字列に整形する。
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
