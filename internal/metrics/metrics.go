// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はドメインイベントのメトリクス収集インターフェース。
// サービス層から利用する。
type Recorder interface {
	RecordSubscriptionCreated()
	RecordSubscriptionCancelled()
	RecordSubscriptionExpired()
	RecordEligibilityCheck(eligible bool)
}

// HTTPRecorder はHTTPリクエストのメトリクス収集インターフェース。
// ミドルウェアから利用する。
type HTTPRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	subsCreated      prometheus.Counter
	subsCancelled    prometheus.Counter
	subsExpired      prometheus.Counter
	eligibilityCheck *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
	requestDuration  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		subsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memberclub_subscriptions_created_total",
			Help: "購読新規作成の合計数",
		}),
		subsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memberclub_subscriptions_cancelled_total",
			Help: "購読解約の合計数",
		}),
		subsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memberclub_subscriptions_expired_total",
			Help: "遅延失効で期限切れに遷移した購読の合計数",
		}),
		eligibilityCheck: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memberclub_eligibility_checks_total",
			Help: "加入条件判定の実行数（判定結果別）",
		}, []string{"eligible"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memberclub_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "memberclub_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.subsCreated,
		c.subsCancelled,
		c.subsExpired,
		c.eligibilityCheck,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordSubscriptionCreated は購読の新規作成を記録する。
func (c *Collector) RecordSubscriptionCreated() {
	c.subsCreated.Inc()
}

// RecordSubscriptionCancelled は購読の解約を記録する。
func (c *Collector) RecordSubscriptionCancelled() {
	c.subsCancelled.Inc()
}

// RecordSubscriptionExpired は購読の遅延失効を記録する。
func (c *Collector) RecordSubscriptionExpired() {
	c.subsExpired.Inc()
}

// RecordEligibilityCheck は加入条件判定の実行を判定結果別に記録する。
func (c *Collector) RecordEligibilityCheck(eligible bool) {
	c.eligibilityCheck.WithLabelValues(strconv.FormatBool(eligible)).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はHTTPリクエストの処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// --- compile-time interface checks ---

var _ Recorder = (*Collector)(nil)
var _ HTTPRecorder = (*Collector)(nil)
