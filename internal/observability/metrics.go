package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

const defaultScrapeInterval = 10 * time.Second

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiErrors   *CounterVec

	rollups           *CounterVec
	rollupLatency     *HistogramVec
	summaries         *CounterVec
	admissionRejected *CounterVec
	eventsPublished   *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("consultancy_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"consultancy_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("consultancy_api_inflight_requests", "In-flight API requests."),
		apiErrors:   NewCounterVec("consultancy_api_errors_total", "API error responses by code.", []string{"code"}),
		rollups:     NewCounterVec("consultancy_contract_rollups_total", "Contract financial rollups by status.", []string{"status"}),
		rollupLatency: NewHistogramVec(
			"consultancy_contract_rollup_duration_seconds",
			"Contract rollup duration in seconds including store reads.",
			[]string{},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		),
		summaries:         NewCounterVec("consultancy_weekly_summaries_total", "Weekly timesheet summaries by status.", []string{"status"}),
		admissionRejected: NewCounterVec("consultancy_admission_rejected_total", "Writes refused by lifecycle admission by operation/reason.", []string{"operation", "reason"}),
		eventsPublished:   NewCounterVec("consultancy_events_published_total", "Record-change events by entity/action/status.", []string{"entity", "action", "status"}),
		dbStats:           NewGaugeVec("consultancy_db_stats", "Database connection pool stats.", []string{"metric"}),
		redisUp:           NewGauge("consultancy_redis_up", "Redis connectivity (1=up, 0=down)."),
		redisPing:         NewGauge("consultancy_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(m.WriteHTTP)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.apiErrors,
		m.rollups,
		m.rollupLatency,
		m.summaries,
		m.admissionRejected,
		m.eventsPublished,
		m.dbStats,
		m.redisUp,
		m.redisPing,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) IncAPIError(code string) {
	if m == nil {
		return
	}
	m.apiErrors.Inc(code)
}

func (m *Metrics) ObserveContractRollup(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.rollups.Inc(status)
	m.rollupLatency.Observe(dur.Seconds())
}

func (m *Metrics) IncWeeklySummary(status string) {
	if m == nil {
		return
	}
	m.summaries.Inc(status)
}

func (m *Metrics) IncAdmissionRejected(operation, reason string) {
	if m == nil {
		return
	}
	m.admissionRejected.Inc(operation, strings.ReplaceAll(reason, " ", "_"))
}

func (m *Metrics) IncEventPublished(entity, action, status string) {
	if m == nil {
		return
	}
	m.eventsPublished.Inc(entity, action, status)
}

// AdmissionRejected returns the rejection count for one operation/reason pair.
func (m *Metrics) AdmissionRejected(operation, reason string) float64 {
	if m == nil {
		return 0
	}
	return m.admissionRejected.Value(operation, strings.ReplaceAll(reason, " ", "_"))
}

// StartDBCollector samples sql.DB pool stats until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = defaultScrapeInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.collectDBStats(log, db)
			}
		}
	}()
}

func (m *Metrics) collectDBStats(log *logger.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	stats := sqlDB.Stats()
	m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
	m.dbStats.Set(float64(stats.InUse), "in_use")
	m.dbStats.Set(float64(stats.Idle), "idle")
	m.dbStats.Set(float64(stats.WaitCount), "wait_count")
	m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
}

// StartRedisCollector pings rdb on every tick until ctx ends.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = defaultScrapeInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
