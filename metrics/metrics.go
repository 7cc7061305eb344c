// Package metrics exposes reconstruction metrics in Prometheus format.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconstruction outcomes used as the "outcome" label.
const (
	OutcomeRecovered    = "recovered"
	OutcomeOutlier      = "recovered_with_outlier"
	OutcomeInsufficient = "insufficient_shares"
	OutcomeNoPolynomial = "no_polynomial"
	OutcomeTooLarge     = "search_too_large"
	OutcomeMalformed    = "malformed"
	OutcomeError        = "error"
)

// Recorder holds the reconstruction collectors. A nil *Recorder discards
// every observation.
type Recorder struct {
	reconstructions *prometheus.CounterVec
	duration        prometheus.Histogram
	candidates      prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

// NewRegistry returns a registry that already carries the Go runtime and
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewRecorder(namespace string, reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		reconstructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconstructions_total",
			Help:      "Reconstruction attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconstruction_duration_seconds",
			Help:      "Time spent searching for a consistent polynomial.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconstruction_candidates",
			Help:      "Position of the accepted subset in enumeration order.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_lookups_total",
			Help:      "Archived payload result cache lookups.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{r.reconstructions, r.duration, r.candidates, r.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveReconstruction records one attempt. candidates is ignored when zero.
func (r *Recorder) ObserveReconstruction(outcome string, took time.Duration, candidates int) {
	if r == nil {
		return
	}
	r.reconstructions.WithLabelValues(outcome).Inc()
	r.duration.Observe(took.Seconds())
	if candidates > 0 {
		r.candidates.Observe(float64(candidates))
	}
}

func (r *Recorder) ObserveCacheLookup(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		r.cacheLookups.WithLabelValues("miss").Inc()
	}
}

type MetricsServer struct {
	srv *http.Server
}

func New(addr string, gatherer prometheus.Gatherer) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
