package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veritas_latency_seconds",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_predictions_total",
		Help: "Classifications returned, by request kind and label",
	}, []string{"kind", "classification"})

	InferenceSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veritas_inference_seconds",
		Help:    "Time spent in the model or verification pipeline",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"kind"})

	ClaimCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_claim_cache_total",
		Help: "Claim verdict cache lookups",
	}, []string{"result"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veritas_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)
