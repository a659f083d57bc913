// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// plan.GenerationObserverとexport.Observerの両方を満たす。
type Collector struct {
	generationSuccess prometheus.Counter
	generationFail    prometheus.Counter
	generationLatency prometheus.Histogram
	renderSuccess     prometheus.Counter
	renderFail        prometheus.Counter
	renderLatency     prometheus.Histogram
	cleanupDeleted    prometheus.Counter
	httpStatus        *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generationSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealdesk_generation_success_total",
			Help: "ミールプラン生成成功の合計数",
		}),
		generationFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealdesk_generation_fail_total",
			Help: "ミールプラン生成失敗の合計数",
		}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealdesk_generation_latency_seconds",
			Help:    "ミールプラン生成のレイテンシ（秒）。LLM呼び出しを含む",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		renderSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealdesk_pdf_render_success_total",
			Help: "PDF描画成功の合計数",
		}),
		renderFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealdesk_pdf_render_fail_total",
			Help: "PDF描画失敗の合計数",
		}),
		renderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealdesk_pdf_render_latency_seconds",
			Help:    "PDF描画のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		cleanupDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealdesk_pdf_cleanup_deleted_total",
			Help: "クリーンアップで削除された期限切れPDFの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealdesk_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.generationSuccess,
		c.generationFail,
		c.generationLatency,
		c.renderSuccess,
		c.renderFail,
		c.renderLatency,
		c.cleanupDeleted,
		c.httpStatus,
	)

	return c
}

// ObserveGeneration はプラン生成の成否とレイテンシを記録する。
func (c *Collector) ObserveGeneration(success bool, elapsed time.Duration) {
	if success {
		c.generationSuccess.Inc()
	} else {
		c.generationFail.Inc()
	}
	c.generationLatency.Observe(elapsed.Seconds())
}

// ObserveRender はPDF描画の成否とレイテンシを記録する。
func (c *Collector) ObserveRender(success bool, elapsed time.Duration) {
	if success {
		c.renderSuccess.Inc()
	} else {
		c.renderFail.Inc()
	}
	c.renderLatency.Observe(elapsed.Seconds())
}

// ObserveCleanup はクリーンアップでの削除件数を記録する。
func (c *Collector) ObserveCleanup(deleted int) {
	c.cleanupDeleted.Add(float64(deleted))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// HTTPMiddleware はレスポンスのステータスコードを記録するミドルウェアを返す。
func (c *Collector) HTTPMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)
			c.RecordHTTPStatus(rec.statusCode)
		})
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
