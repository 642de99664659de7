package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// DefaultRegistry is the shared registry for harness metrics.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		StepTotal, RuleDuration, RuleSkippedTotal,
		SUTRequestDuration, SUTErrorTotal,
		InjectedDelayMs, InvariantViolationTotal,
	)
}

// StepTotal counts engine steps by selected rule.
var StepTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dst_step_total",
		Help: "Engine steps executed, by rule",
	},
	[]string{"rule"},
)

// RuleDuration is per-rule execution time in seconds.
var RuleDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dst_rule_duration_seconds",
		Help:    "Rule execution time (seconds)",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"rule"},
)

// RuleSkippedTotal counts rules that returned without effect (precondition unmet).
var RuleSkippedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dst_rule_skipped_total",
		Help: "Rules selected but skipped because their precondition was unmet",
	},
	[]string{"rule"},
)

// SUTRequestDuration is the observed latency of live-service calls.
var SUTRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dst_sut_request_duration_seconds",
		Help:    "Live-service request time (seconds)",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SUTErrorTotal counts unexpected 5xx responses recorded in the error log.
var SUTErrorTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dst_sut_error_total",
		Help: "Unexpected live-service failures, by operation",
	},
	[]string{"op"},
)

// InjectedDelayMs records delays drawn from the fault injector.
var InjectedDelayMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "dst_injected_delay_ms",
		Help:    "Delays drawn from the fault injector (milliseconds)",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	},
)

// InvariantViolationTotal counts safety and liveness violations by invariant name.
var InvariantViolationTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dst_invariant_violation_total",
		Help: "Invariant violations, by invariant",
	},
	[]string{"invariant"},
)

// WritePrometheus writes the registry in text exposition format.
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
