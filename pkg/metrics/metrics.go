package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walletgw"

// Recorder owns the gateway's collectors on a private registry. A nil
// *Recorder ignores every call.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	transactions *prometheus.CounterVec
	connects     *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
}

// New creates a Recorder with the Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Wallet transaction submissions by kind, wallet mode and outcome.",
		}, []string{"kind", "mode", "outcome"}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_connects_total",
			Help:      "Wallet connection attempts by resulting mode and outcome.",
		}, []string{"mode", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_fallbacks_total",
			Help:      "Switches from the real wallet to the simulated wallet by stage.",
		}, []string{"stage"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.transactions,
		r.connects,
		r.fallbacks,
	)
	return r
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// TrackSession exports a gauge that reads connected on every scrape.
func (r *Recorder) TrackSession(connected func() bool) {
	if r == nil {
		return
	}
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "wallet_connected",
		Help:      "1 while a wallet account is connected.",
	}, func() float64 {
		if connected() {
			return 1
		}
		return 0
	}))
}

func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Transaction counts one submission. err decides the outcome label.
func (r *Recorder) Transaction(kind, mode string, err error) {
	if r == nil {
		return
	}
	r.transactions.WithLabelValues(kind, mode, outcome(err)).Inc()
}

func (r *Recorder) Connect(mode string, err error) {
	if r == nil {
		return
	}
	r.connects.WithLabelValues(mode, outcome(err)).Inc()
}

// Fallback counts a switch to the simulated wallet during stage (init, connect).
func (r *Recorder) Fallback(stage string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(stage).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
