package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pollCycles    *prometheus.CounterVec
	flagged       prometheus.Counter
	notifications *prometheus.CounterVec
	routed        *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	inbound       prometheus.Counter
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		pollCycles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbrain_poll_cycles_total",
				Help: "Risk poll cycles by outcome",
			},
			[]string{"result"},
		),
		flagged: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bankbrain_flagged_amounts_total",
				Help: "Transaction amounts flagged as suspicious",
			},
		),
		notifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbrain_notifications_total",
				Help: "Notifications handed to the gateway by outcome",
			},
			[]string{"result"},
		),
		routed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbrain_gateway_messages_total",
				Help: "Messages routed by the gateway",
			},
			[]string{"destination", "result"},
		),
		toolCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbrain_tool_calls_total",
				Help: "Tool server calls by tool and outcome",
			},
			[]string{"tool", "result"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbrain_cache_lookups_total",
				Help: "Bank response cache lookups",
			},
			[]string{"hit"},
		),
		inbound: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bankbrain_inbound_notifications_total",
				Help: "Notifications received by the support agent",
			},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankbrain_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordPollCycle(result string) {
	r.pollCycles.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordFlagged(n int) {
	r.flagged.Add(float64(n))
}

func (r *Recorder) RecordNotification(result string) {
	r.notifications.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordRouted(destination, result string) {
	r.routed.WithLabelValues(destination, result).Inc()
}

func (r *Recorder) RecordToolCall(tool, result string) {
	r.toolCalls.WithLabelValues(tool, result).Inc()
}

func (r *Recorder) RecordCacheLookup(hit bool) {
	r.cacheLookups.WithLabelValues(strconv.FormatBool(hit)).Inc()
}

func (r *Recorder) RecordInboundNotification() {
	r.inbound.Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordPollCycle(string)        {}
func (Nop) RecordFlagged(int)             {}
func (Nop) RecordNotification(string)     {}
func (Nop) RecordRouted(string, string)   {}
func (Nop) RecordToolCall(string, string) {}
func (Nop) RecordCacheLookup(bool)        {}
func (Nop) RecordInboundNotification()    {}
func (Nop) RecordLatency(string, float64) {}
