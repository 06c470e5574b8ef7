// Package metrics собирает метрики Prometheus консоли: диспетчеризацию действий,
// результаты асинхронных запросов, публикацию аудита и состояние пула воркеров.
package metrics

import (
	"net/http"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// Metrics держит собственный реестр, чтобы тесты и несколько экземпляров приложения не конфликтовали.
type Metrics struct {
	registry *prometheus.Registry

	dispatches     *prometheus.CounterVec
	effectOutcomes *prometheus.CounterVec
	effectDuration *prometheus.HistogramVec
	auditPublished *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.dispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_dispatched_actions_total",
			Help: "Number of actions dispatched into the store",
		},
		[]string{"action"},
	)
	m.effectOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "effects_requests_total",
			Help: "Completed effect requests by action and outcome",
		},
		[]string{"action", "outcome"},
	)
	m.effectDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "effects_request_duration_seconds",
			Help:    "Duration of effect requests to the payments API",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"action"},
	)
	m.auditPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Action audit events by publish result",
		},
		[]string{"result"},
	)

	m.registry.MustRegister(
		m.dispatches,
		m.effectOutcomes,
		m.effectDuration,
		m.auditPublished,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдаёт метрики реестра для /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) IncDispatch(actionType string) {
	m.dispatches.WithLabelValues(actionType).Inc()
}

func (m *Metrics) ObserveEffect(actionType, outcome string, took time.Duration) {
	m.effectOutcomes.WithLabelValues(actionType, outcome).Inc()
	m.effectDuration.WithLabelValues(actionType).Observe(took.Seconds())
}

func (m *Metrics) IncAuditPublish(ok bool) {
	result := OutcomeSuccess
	if !ok {
		result = OutcomeFailure
	}
	m.auditPublished.WithLabelValues(result).Inc()
}

// RegisterPoolMetrics экспортирует состояние пула pond под меткой pool.
func (m *Metrics) RegisterPoolMetrics(name string, pool pond.Pool) {
	labels := prometheus.Labels{"pool": name}

	m.registry.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "pool_workers_running",
				Help:        "Number of running worker goroutines",
				ConstLabels: labels,
			},
			func() float64 { return float64(pool.RunningWorkers()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name:        "pool_tasks_submitted_total",
				Help:        "Number of tasks submitted",
				ConstLabels: labels,
			},
			func() float64 { return float64(pool.SubmittedTasks()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "pool_tasks_waiting",
				Help:        "Number of tasks currently waiting in the queue",
				ConstLabels: labels,
			},
			func() float64 { return float64(pool.WaitingTasks()) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name:        "pool_tasks_failed_total",
				Help:        "Number of tasks that panicked or returned an error",
				ConstLabels: labels,
			},
			func() float64 { return float64(pool.FailedTasks()) },
		),
	)
}
