// Package metrics provides Prometheus instrumentation for jetton deployments.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/jetton"
)

const namespace = "jetton_deployer"

var _ jetton.ProgressSink = (*runSink)(nil)

// Progress counts state transitions and failures of CreateJetton and times
// whole runs from BALANCE_CHECK to a terminal notification. It is shared by all
// runs; each run reports through its own Sink.
type Progress struct {
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec

	now func() time.Time
}

func NewProgress(reg prometheus.Registerer) *Progress {
	factory := promauto.With(reg)
	return &Progress{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_transitions_total",
				Help:      "Total number of deployment state transitions",
			},
			[]string{"state"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Total number of failed deployments by last reached state",
			},
			[]string{"state"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of deployment runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"result"},
		),
		now: time.Now,
	}
}

// Sink returns the progress sink of a single CreateJetton run.
func (m *Progress) Sink() jetton.ProgressSink {
	return &runSink{m: m}
}

type runSink struct {
	m *Progress

	mu      sync.Mutex
	started time.Time
}

func (s *runSink) OnProgress(p jetton.Progress) {
	if p.Err != nil {
		s.m.failures.WithLabelValues(p.State.String()).Inc()
		s.finish("failure")
		return
	}

	s.m.transitions.WithLabelValues(p.State.String()).Inc()
	switch p.State {
	case jetton.BalanceCheck:
		s.mu.Lock()
		s.started = s.m.now()
		s.mu.Unlock()
	case jetton.Done:
		s.finish("success")
	}
}

func (s *runSink) finish(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		return
	}
	s.m.duration.WithLabelValues(result).Observe(s.m.now().Sub(s.started).Seconds())
	s.started = time.Time{}
}

// Handler serves the metrics of gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
