package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salesdash"

// 结果标签
const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultError   = "error"
)

// Metrics 业务指标（独立 registry，便于测试）
type Metrics struct {
	registry       *prometheus.Registry
	uploads        *prometheus.CounterVec
	records        prometheus.Histogram
	importDuration prometheus.Histogram
	insights       *prometheus.CounterVec
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads processed, by result.",
		}, []string{"result"}),
		records: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_records",
			Help:      "Records recognized per successful upload.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent decoding and normalizing an upload.",
			Buckets:   prometheus.DefBuckets,
		}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_total",
			Help:      "Narrative generation requests, by result.",
		}, []string{"result"}),
	}

	// 预先创建各结果标签，未发生时也输出 0
	for _, result := range []string{ResultSuccess, ResultEmpty, ResultError} {
		m.uploads.WithLabelValues(result)
	}
	for _, result := range []string{ResultSuccess, ResultError} {
		m.insights.WithLabelValues(result)
	}

	reg.MustRegister(
		m.uploads, m.records, m.importDuration, m.insights,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveImport 记录一次导入
func (m *Metrics) ObserveImport(result string, records int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
	m.importDuration.Observe(elapsed.Seconds())
	if result == ResultSuccess {
		m.records.Observe(float64(records))
	}
}

// ObserveInsight 记录一次文案生成
func (m *Metrics) ObserveInsight(result string) {
	if m == nil {
		return
	}
	m.insights.WithLabelValues(result).Inc()
}
