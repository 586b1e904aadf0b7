package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/hitoshi/memberclub/internal/model"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresCatalogRepoはCatalogRepositoryインターフェースを満たすことを検証
func TestPostgresCatalogRepo_ImplementsInterface(t *testing.T) {
	var _ CatalogRepository = (*PostgresCatalogRepo)(nil)
}

// PostgresSubscriptionRepoはSubscriptionRepositoryインターフェースを満たすことを検証
func TestPostgresSubscriptionRepo_ImplementsInterface(t *testing.T) {
	var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCatalogRepoが正しく初期化されることを検証
func TestNewPostgresCatalogRepo_Initializes(t *testing.T) {
	repo := NewPostgresCatalogRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSubscriptionRepoが正しく初期化されることを検証
func TestNewPostgresSubscriptionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSubscriptionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// ユニットテスト: 一意制約違反の判定がpqのエラーコードに基づくこと
// （DB接続なしでロジックのみ検証）
func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"一意制約違反", &pq.Error{Code: "23505"}, true},
		{"ラップされた一意制約違反", fmt.Errorf("insert failed: %w", &pq.Error{Code: "23505"}), true},
		{"別のpqエラー", &pq.Error{Code: "23503"}, false},
		{"pq以外のエラー", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation = %v, want %v", got, tt.want)
			}
		})
	}
}

// ユニットテスト: benefitsのJSONB変換が往復で値を保持すること
// （DB接続なしでロジックのみ検証）
func TestBenefits_MarshalUnmarshal_RoundTrip(t *testing.T) {
	benefits := map[string]string{
		"FREE_DELIVERY":      "true",
		"DISCOUNT_PERCENT":   "5",
		"EARLY_ACCESS_HOURS": "24",
	}

	raw, err := marshalBenefits(benefits)
	if err != nil {
		t.Fatalf("marshalBenefits returned error: %v", err)
	}

	tier := &model.Tier{}
	if err := unmarshalBenefits(raw, tier); err != nil {
		t.Fatalf("unmarshalBenefits returned error: %v", err)
	}

	if len(tier.Benefits) != len(benefits) {
		t.Fatalf("benefits length = %d, want %d", len(tier.Benefits), len(benefits))
	}
	for k, v := range benefits {
		if tier.Benefits[k] != v {
			t.Errorf("benefits[%q] = %q, want %q", k, tier.Benefits[k], v)
		}
	}
}

// ユニットテスト: nilのbenefitsマップが空オブジェクトとして保存されること
func TestMarshalBenefits_NilMap_EmptyObject(t *testing.T) {
	raw, err := marshalBenefits(nil)
	if err != nil {
		t.Fatalf("marshalBenefits returned error: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("marshalBenefits(nil) = %q, want %q", string(raw), "{}")
	}
}

// ユニットテスト: 空のJSONBカラムが空マップに復元されること
func TestUnmarshalBenefits_EmptyRaw_EmptyMap(t *testing.T) {
	tier := &model.Tier{}
	if err := unmarshalBenefits(nil, tier); err != nil {
		t.Fatalf("unmarshalBenefits returned error: %v", err)
	}
	if tier.Benefits == nil {
		t.Fatal("expected non-nil benefits map")
	}
	if len(tier.Benefits) != 0 {
		t.Errorf("benefits length = %d, want 0", len(tier.Benefits))
	}
}
