package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported on /metrics
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Queries         prometheus.Counter
	EmptyQueries    prometheus.Counter
	TopScore        prometheus.Histogram
}

// NewMetrics registers the API collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plotmatch_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		Queries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plotmatch_queries_total",
			Help: "Total number of recommendation queries served",
		}),
		EmptyQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plotmatch_empty_queries_total",
			Help: "Queries that normalized to empty text",
		}),
		TopScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "plotmatch_top_similarity_score",
			Help:    "Similarity score of the best match per query",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
	reg.MustRegister(m.RequestDuration, m.Queries, m.EmptyQueries, m.TopScore)
	return m
}

// instrument records request latency by chi route pattern.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
