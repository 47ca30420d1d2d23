package metrics

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"PodVault/internal/model"
)

var (
	DepositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podvault_deposits_total",
		Help: "Total number of successful deposits",
	})

	WithdrawalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podvault_withdrawals_total",
		Help: "Total number of successful withdrawals",
	})

	BatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podvault_batches_total",
		Help: "Total number of float commits to the yield source",
	})

	DropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podvault_drops_total",
		Help: "Total number of reward drops into the accumulator",
	})

	ClaimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "podvault_claims_total",
		Help: "Total number of reward claims",
	})

	OperationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podvault_operation_failures_total",
		Help: "Operation failures by operation and failure string",
	}, []string{"operation", "reason"})

	FloatBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podvault_float_balance",
		Help: "Underlying balance not yet committed to the yield source, in base units",
	})

	PositionBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podvault_position_balance",
		Help: "Value committed to the yield source, in base units",
	})

	TotalSupply = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podvault_total_supply",
		Help: "Total share supply, in base units",
	})

	PricePerShare = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podvault_price_per_share",
		Help: "Price per share scaled by 10^decimals",
	})

	TotalUnclaimed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "podvault_reward_unclaimed",
		Help: "Reward owed to holders but not yet paid out, in base units",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podvault_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podvault_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// ObserveStatus pushes a vault snapshot into the gauges. Base-unit amounts
// are exported as floats; precision loss here is acceptable for monitoring.
func ObserveStatus(status model.VaultStatus) {
	FloatBalance.Set(gaugeValue(status.Float))
	PositionBalance.Set(gaugeValue(status.Position))
	TotalSupply.Set(gaugeValue(status.TotalSupply))
	PricePerShare.Set(gaugeValue(status.PricePerShare))
	TotalUnclaimed.Set(gaugeValue(status.TotalUnclaimed))
}

func gaugeValue(v math.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

// Instrument wraps an HTTP handler with request counting and latency
// observation, labeled by the routing pattern rather than the raw path.
func Instrument(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
