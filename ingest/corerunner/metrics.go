package corerunner

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// instrumentedFacade decorates a Facade with the prometheus collectors a
// production deployment scrapes: counts and latencies for every
// range-preparation and lookup call, plus a gauge tracking how many records
// are currently held in the prepared set.
type instrumentedFacade struct {
	*Facade

	registry *prometheus.Registry

	callCounter     *prometheus.CounterVec
	callDuration    *prometheus.SummaryVec
	preparedGauge   prometheus.Gauge
	terminalCounter prometheus.Counter
}

// NewInstrumentedFacade wraps f so every call against it is observed under
// namespace/corerunner in registry. Unregister the returned Facade's
// collectors by calling CloseRunnerProcess and discarding the wrapper; the
// collectors stay registered for the process lifetime otherwise, matching
// how support/db's SessionWithMetrics is scoped to its owner's lifetime.
func NewInstrumentedFacade(f *Facade, registry *prometheus.Registry, namespace string) *Facade {
	m := &instrumentedFacade{
		Facade:   f,
		registry: registry,
	}

	m.callCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "corerunner",
			Name:      "call_total",
			Help:      "total number of Facade method calls, labeled by method and error",
		},
		[]string{"method", "error"},
	)
	registry.MustRegister(m.callCounter)

	m.callDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  namespace,
			Subsystem:  "corerunner",
			Name:       "call_duration_seconds",
			Help:       "Facade method call duration in seconds",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method"},
	)
	registry.MustRegister(m.callDuration)

	m.preparedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "corerunner",
			Name:      "prepared_records",
			Help:      "number of MetaResult records currently held in the prepared set",
		},
	)
	registry.MustRegister(m.preparedGauge)

	m.terminalCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "corerunner",
			Name:      "decode_frame_error_total",
			Help:      "total number of DecodeFrame errors observed across all streams, including the one terminal error every stream ends with",
		},
	)
	registry.MustRegister(m.terminalCounter)

	return &Facade{runner: f.runner, metrics: m}
}

// observe returns a closure to defer; it reads *errp at call time, after the
// wrapped method has set its named return, rather than capturing err's value
// at defer-statement time.
func (m *instrumentedFacade) observe(method string, errp *error) func() {
	start := time.Now()
	return func() {
		m.callDuration.With(prometheus.Labels{"method": method}).Observe(time.Since(start).Seconds())
		m.callCounter.With(prometheus.Labels{
			"method": method,
			"error":  fmt.Sprint(*errp != nil),
		}).Inc()
	}
}

// wrapStream passes every MetaResult through unchanged, counting every
// DecodeFrame record (the terminal one included) as it passes, so PrepareLedgersMultiThread and
// StartOnlineNoRange's returned channels are observed exactly like a direct
// Runner channel would be.
func (m *instrumentedFacade) wrapStream(ch <-chan MetaResult) <-chan MetaResult {
	if m == nil {
		return ch
	}
	out := make(chan MetaResult)
	go func() {
		defer close(out)
		for item := range ch {
			if item.Err != nil {
				m.terminalCounter.Inc()
			}
			out <- item
		}
	}()
	return out
}

func (m *instrumentedFacade) unregister() {
	m.registry.Unregister(m.callCounter)
	m.registry.Unregister(m.callDuration)
	m.registry.Unregister(m.preparedGauge)
	m.registry.Unregister(m.terminalCounter)
}
