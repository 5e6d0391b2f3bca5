package observability

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/chekinn-backend/internal/pkg/envutil"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver, so callers
// never check whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	oracleCalls   *prometheus.CounterVec
	oracleLatency *prometheus.HistogramVec

	learningMerges *prometheus.CounterVec
	mergeRetries   prometheus.Counter

	matchRuns        *prometheus.CounterVec
	matchSuggestions prometheus.Histogram
	matchEvaluations *prometheus.CounterVec

	introEvents   *prometheus.CounterVec
	notifications *prometheus.CounterVec

	dbStats *prometheus.GaugeVec
	redisUp prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled(log *logger.Logger) bool {
	return envutil.Bool("METRICS_ENABLED", true, log)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once. It returns nil when disabled.
func Init(log *logger.Logger) *Metrics {
	if !Enabled(log) {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
	})
	return instance
}

// New builds metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chekinn_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chekinn_api_request_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "chekinn_api_inflight_requests",
			Help: "HTTP requests being served.",
		}),
		oracleCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chekinn_oracle_calls_total",
			Help: "Model calls by oracle and outcome (ok, unavailable, malformed).",
		}, []string{"oracle", "outcome"}),
		oracleLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chekinn_oracle_call_seconds",
			Help:    "Model call latency by oracle.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}, []string{"oracle"}),
		learningMerges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chekinn_learning_merges_total",
			Help: "Learning merges by outcome (merged, skipped, conflict, error).",
		}, []string{"outcome"}),
		mergeRetries: f.NewCounter(prometheus.CounterOpts{
			Name: "chekinn_learning_merge_retries_total",
			Help: "Compare-and-set retries after a concurrent writer won.",
		}),
		matchRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chekinn_match_runs_total",
			Help: "Matching pipeline runs by outcome.",
		}, []string{"outcome"}),
		matchSuggestions: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "chekinn_match_suggestions",
			Help:    "Suggestions produced per pipeline run.",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		}),
		matchEvaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chekinn_match_evaluations_total",
			Help: "Pair evaluations by verdict (match, no_match, failed).",
		}, []string{"verdict"}),
		introEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chekinn_introductions_total",
			Help: "Introduction lifecycle events.",
		}, []string{"event"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chekinn_intro_notifications_total",
			Help: "First-time notifications delivered by side.",
		}, []string{"side"}),
		dbStats: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chekinn_db_pool",
			Help: "database/sql pool stats.",
		}, []string{"stat"}),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "chekinn_redis_up",
			Help: "1 when the intro event bus answered the last ping.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveOracle(oracle, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	oracle = strings.TrimSpace(oracle)
	if oracle == "" {
		oracle = "unknown"
	}
	m.oracleCalls.WithLabelValues(oracle, outcome).Inc()
	if dur > 0 {
		m.oracleLatency.WithLabelValues(oracle).Observe(dur.Seconds())
	}
}

func (m *Metrics) IncLearningMerge(outcome string) {
	if m == nil {
		return
	}
	m.learningMerges.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncMergeRetry() {
	if m == nil {
		return
	}
	m.mergeRetries.Inc()
}

func (m *Metrics) ObserveMatchRun(outcome string, suggestions int) {
	if m == nil {
		return
	}
	m.matchRuns.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.matchSuggestions.Observe(float64(suggestions))
	}
}

func (m *Metrics) IncMatchEvaluation(verdict string) {
	if m == nil {
		return
	}
	m.matchEvaluations.WithLabelValues(verdict).Inc()
}

func (m *Metrics) IncIntroEvent(event string) {
	if m == nil {
		return
	}
	m.introEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) IncNotification(side string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(side).Inc()
}

// StartDBCollector samples connection pool stats until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second, log)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

// StartRedisCollector pings rdb until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	interval := envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second, log)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
			}
		}
	}()
}
