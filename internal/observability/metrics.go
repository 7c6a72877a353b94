package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	riskDecisionCounter   *prometheus.CounterVec
	blocklistHitCounter   prometheus.Counter
	cardBlockCounter      *prometheus.CounterVec
	reviewQueueGauge      prometheus.Gauge
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		riskDecisionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_decisions_total",
			Help: "Risk engine decisions by resulting status",
		}, []string{"status"})

		blocklistHitCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blocklist_hits_total",
			Help: "Transactions rejected because the card was blocklisted",
		})

		cardBlockCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "card_block_requests_total",
			Help: "Block-card command outcomes",
		}, []string{"outcome"})

		reviewQueueGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transactions_review_queue_size",
			Help: "Current number of transactions waiting in manual review",
		})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			riskDecisionCounter,
			blocklistHitCounter,
			cardBlockCounter,
			reviewQueueGauge,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementRiskDecision(status string) {
	if riskDecisionCounter == nil {
		return
	}
	riskDecisionCounter.WithLabelValues(status).Inc()
}

func IncrementBlocklistHit() {
	if blocklistHitCounter == nil {
		return
	}
	blocklistHitCounter.Inc()
}

func IncrementCardBlock(outcome string) {
	if cardBlockCounter == nil {
		return
	}
	cardBlockCounter.WithLabelValues(outcome).Inc()
}

func SetReviewQueueSize(size int64) {
	if reviewQueueGauge == nil {
		return
	}
	reviewQueueGauge.Set(float64(size))
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
