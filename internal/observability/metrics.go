// Package observability exposes client metrics and a localhost debug server.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (labels are message kinds, drop reasons and action names)
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "client_tick_duration_seconds",
		Help:    "Time spent advancing, drawing and flushing one tick",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0167, 0.033},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "client_render_duration_seconds",
		Help:    "Time spent rendering a frame",
		Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.033, 0.05},
	})

	framesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "client_frames_total",
		Help: "Inbound frames decoded and dispatched",
	}, []string{"kind"})

	framesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "client_frames_dropped_total",
		Help: "Inbound frames dropped before dispatch",
	}, []string{"reason"}) // Bounded: "malformed", "missing_type", "unknown_type", "invalid"

	outboundTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "client_outbound_total",
		Help: "Outbound requests written to the server",
	}, []string{"action"})

	interpolationsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "client_interpolations_active",
		Help: "Position and rotation interpolations in flight",
	})

	effectPoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "client_effect_pool_size",
		Help: "Entries in the blood effect pool",
	})

	effectPoolActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "client_effect_pool_active",
		Help: "Blood effects currently playing",
	})

	effectPoolEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "client_effect_pool_evictions_total",
		Help: "Effects cut short because the pool was saturated",
	})

	debugRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "client_debug_requests_rejected_total",
		Help: "Debug server requests rejected by the rate limiter",
	})
)

// RecordTick records tick timing
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordRender records render timing
func RecordRender(d time.Duration) {
	renderDuration.Observe(d.Seconds())
}

// RecordFrame counts a dispatched inbound frame
func RecordFrame(kind string) {
	framesTotal.WithLabelValues(kind).Inc()
}

// RecordFrameDropped counts a dropped inbound frame.
// reason must be one of: "malformed", "missing_type", "unknown_type", "invalid"
func RecordFrameDropped(reason string) {
	framesDropped.WithLabelValues(reason).Inc()
}

// RecordOutbound counts a request written to the server
func RecordOutbound(action string) {
	outboundTotal.WithLabelValues(action).Inc()
}

// UpdateInterpolations sets the in-flight interpolation gauge
func UpdateInterpolations(n int) {
	interpolationsActive.Set(float64(n))
}

// effectEvictionsSeen tracks the last pool eviction total so the counter only gets deltas.
// Only the scheduler goroutine calls UpdateEffectPool.
var effectEvictionsSeen uint64

// UpdateEffectPool sets the pool gauges and adds new evictions to the counter
func UpdateEffectPool(size, active int, evictions uint64) {
	effectPoolSize.Set(float64(size))
	effectPoolActive.Set(float64(active))
	if evictions > effectEvictionsSeen {
		effectPoolEvictions.Add(float64(evictions - effectEvictionsSeen))
	}
	effectEvictionsSeen = evictions
}
