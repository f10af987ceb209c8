package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores do serviço. Um *Metrics nil é válido e não registra nada.
type Metrics struct {
	registry *prometheus.Registry

	purchasesTotal      *prometheus.CounterVec
	balanceMutations    *prometheus.CounterVec
	bonusCacheTotal     *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		purchasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apipainel",
			Name:      "plan_purchases_total",
			Help:      "Plan purchases by final state.",
		}, []string{"state"}),
		balanceMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apipainel",
			Name:      "balance_mutations_total",
			Help:      "Balance mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		bonusCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apipainel",
			Name:      "bonus_cache_total",
			Help:      "Referral bonus lookups by result (hit, miss, fallback).",
		}, []string{"result"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apipainel",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.purchasesTotal,
		m.balanceMutations,
		m.bonusCacheTotal,
		m.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordPurchase(state string) {
	if m == nil {
		return
	}
	m.purchasesTotal.WithLabelValues(state).Inc()
}

func (m *Metrics) RecordBalanceMutation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.balanceMutations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordBonusLookup(result string) {
	if m == nil {
		return
	}
	m.bonusCacheTotal.WithLabelValues(result).Inc()
}

// Handler expõe /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware mede a latência usando o padrão de rota do chi (não o path cru).
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
