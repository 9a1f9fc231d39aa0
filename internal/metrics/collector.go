// internal/metrics/collector.go
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/trade"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
)

// Исходы прогона для метки outcome
const (
	OutcomeOK             = "ok"
	OutcomeRosterNotFound = "roster_not_found"
	OutcomeFetchError     = "fetch_error"
	OutcomeError          = "error"
)

// Collector держит метрики сервиса в собственном реестре, чтобы тесты
// не пересекались через глобальный.
type Collector struct {
	registry        *prometheus.Registry
	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	proposals       *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	adpEntries      prometheus.Gauge
}

// NewCollector создает коллектор и регистрирует метрики
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradebot_runs_total",
				Help: "Trade runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradebot_run_duration_seconds",
				Help:    "Duration of a trade run including Sleeper fetches",
				Buckets: prometheus.DefBuckets,
			},
		),
		proposals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradebot_proposals_total",
				Help: "Trade proposals produced, by kind",
			},
			[]string{"kind"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradebot_sleeper_request_duration_seconds",
				Help:    "Latency of Sleeper API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "status"},
		),
		adpEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradebot_adp_entries",
				Help: "Entries in the loaded ADP reference table",
			},
		),
	}

	c.registry.MustRegister(c.runs, c.runDuration, c.proposals, c.requestDuration, c.adpEntries)

	// Нулевые серии видны до первого прогона
	for _, kind := range []trade.Kind{trade.OneForOne, trade.TwoForOne} {
		c.proposals.WithLabelValues(string(kind))
	}
	return c
}

// ObserveRequest реализует sleeper.RequestObserver
func (c *Collector) ObserveRequest(op string, status int, took time.Duration) {
	c.requestDuration.WithLabelValues(op, strconv.Itoa(status)).Observe(took.Seconds())
}

// RecordRun записывает исход и длительность прогона
func (c *Collector) RecordRun(rep *tradebot.Report, err error, took time.Duration) {
	c.runs.WithLabelValues(Outcome(err)).Inc()
	c.runDuration.Observe(took.Seconds())

	if err != nil || rep == nil {
		return
	}
	for _, p := range rep.Proposals {
		c.proposals.WithLabelValues(string(p.Kind)).Inc()
	}
}

// SetADPEntries обновляет размер таблицы ADP
func (c *Collector) SetADPEntries(n int) {
	c.adpEntries.Set(float64(n))
}

// Handler отдает метрики в формате Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам для чтения значений
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Outcome классифицирует ошибку прогона
func Outcome(err error) string {
	var fetchErr *sleeper.FetchError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, tradebot.ErrRosterNotFound):
		return OutcomeRosterNotFound
	case errors.As(err, &fetchErr):
		return OutcomeFetchError
	default:
		return OutcomeError
	}
}
