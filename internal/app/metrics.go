package app

import (
	"admission-quiz-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts attempt outcomes. A nil *Metrics records nothing.
type Metrics struct {
	started  prometheus.Counter
	ended    *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewMetrics registers the quiz counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "attempts_started_total",
			Help:      "Quiz attempts that passed the gate and loaded a bank.",
		}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "attempts_ended_total",
			Help:      "Finished quiz attempts by admission tier.",
		}, []string{"tier"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "attempts_rejected_total",
			Help:      "Attempts refused before start, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.started, m.ended, m.rejected)
	return m
}

func (m *Metrics) attemptStarted() {
	if m == nil {
		return
	}
	m.started.Inc()
}

func (m *Metrics) attemptEnded(r domain.QuizEnded) {
	if m == nil {
		return
	}
	m.ended.WithLabelValues(string(r.Tier)).Inc()
}

func (m *Metrics) attemptRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}
