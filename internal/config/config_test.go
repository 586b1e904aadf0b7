package config

import (
	"testing"
	"time"
)

// DATABASE_URL未設定でエラーになることを検証
func TestLoad_MissingRequired(t *testing.T) {
	// t.Setenvでテスト終了時に環境変数が復元される
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing DATABASE_URL, got nil")
	}
}

// 必須項目のみでデフォルト値が適用されることを検証
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/memberclub")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
	}
	if cfg.RateLimitSubscribe != 30 {
		t.Errorf("RateLimitSubscribe = %d, want 30", cfg.RateLimitSubscribe)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.CORSAllowedOrigin != "http://localhost:3000" {
		t.Errorf("CORSAllowedOrigin = %q, want http://localhost:3000", cfg.CORSAllowedOrigin)
	}
}

// 環境変数でデフォルト値を上書きできることを検証
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/memberclub")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_GENERAL", "240")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.RateLimitGeneral != 240 {
		t.Errorf("RateLimitGeneral = %d, want 240", cfg.RateLimitGeneral)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

// 不正な数値はデフォルト値にフォールバックすることを検証
func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/memberclub")
	t.Setenv("RATE_LIMIT_GENERAL", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want default 120", cfg.RateLimitGeneral)
	}
}
