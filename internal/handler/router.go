package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/memberclub/internal/metrics"
	"github.com/hitoshi/memberclub/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	MetricsRecorder   metrics.HTTPRecorder
	MetricsGatherer   prometheus.Gatherer

	// ユーザー
	UserService UserServiceInterface

	// カタログ
	CatalogService CatalogServiceInterface

	// 購読
	SubscriptionService SubscriptionServiceInterface

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeadersMiddleware → LoggingMiddleware → RecoveryMiddleware → MetricsMiddleware → RateLimitMiddleware(General)
//
// 運用系ルート（/healthz、/metrics）はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	r.Use(middleware.NewRecoveryMiddleware())

	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	userHandler := NewUserHandler(deps.UserService)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	subHandler := NewSubscriptionHandler(deps.SubscriptionService)

	// --- 運用系ルート（レート制限の外） ---

	if deps.HealthChecker != nil {
		healthHandler := NewHealthHandler(deps.HealthChecker)
		r.Get("/healthz", healthHandler.Check)
	}

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// ユーザーディレクトリ
		r.Route("/api/users", func(r chi.Router) {
			r.Post("/", userHandler.RegisterUser)
			r.Get("/", userHandler.ListUsers)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)

				// 購読の参照・解約はユーザー配下のリソースとして公開する
				r.Get("/subscription", subHandler.GetSubscription)
				r.Delete("/subscription", subHandler.CancelSubscription)
				r.Get("/eligibility/{tierID}", subHandler.CheckEligibility)
			})
		})

		// カタログ
		r.Get("/api/tiers", catalogHandler.ListTiers)
		r.Get("/api/plans", catalogHandler.ListPlans)

		// 購読加入（加入専用レート制限を追加）
		if deps.RateLimiter != nil {
			r.With(deps.RateLimiter.SubscribeMiddleware()).Post("/api/subscriptions", subHandler.Subscribe)
		} else {
			r.Post("/api/subscriptions", subHandler.Subscribe)
		}
	})

	return r
}
