// Package metrics exports simulation progress as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nvandessel/cohortsim/internal/simulation"
)

// Recorder holds the cohortsim metrics. It implements simulation.Observer
// and is safe for concurrent use.
type Recorder struct {
	TrialsTotal       *prometheus.CounterVec
	SessionsTotal     *prometheus.CounterVec
	InteractionsTotal *prometheus.CounterVec
	SelfStudyTotal    *prometheus.CounterVec
	SessionMeanSkill  *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewRecorder creates the metrics and registers them on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	return NewRecorderWith(reg, reg)
}

// NewRecorderWith registers the metrics on reg. g is used by WriteTextfile
// and is usually the same registry.
func NewRecorderWith(reg prometheus.Registerer, g prometheus.Gatherer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		TrialsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cohortsim_trials_total",
				Help: "Total number of completed trials",
			},
			[]string{"phase"},
		),
		SessionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cohortsim_sessions_total",
				Help: "Total number of completed sessions",
			},
			[]string{"phase"},
		),
		InteractionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cohortsim_interactions_total",
				Help: "Total number of tutoring interactions",
			},
			[]string{"phase"},
		),
		SelfStudyTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cohortsim_self_study_events_total",
				Help: "Total number of students who won the self-study draw",
			},
			[]string{"phase"},
		),
		SessionMeanSkill: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cohortsim_session_mean_skill",
				Help:    "Cohort mean total skill at the end of each session",
				Buckets: prometheus.LinearBuckets(10, 10, 10), // 10 to 100
			},
			[]string{"phase"},
		),
		gatherer: g,
	}
}

// SessionCompleted implements simulation.Observer.
func (r *Recorder) SessionCompleted(s simulation.SessionStats) {
	phase := string(s.Phase)
	r.SessionsTotal.WithLabelValues(phase).Inc()
	r.InteractionsTotal.WithLabelValues(phase).Add(float64(s.Interactions))
	r.SelfStudyTotal.WithLabelValues(phase).Add(float64(s.SelfStudied))
	r.SessionMeanSkill.WithLabelValues(phase).Observe(s.MeanSkill)
}

// TrialCompleted implements simulation.Observer.
func (r *Recorder) TrialCompleted(phase simulation.Phase, trial int) {
	r.TrialsTotal.WithLabelValues(string(phase)).Inc()
}

// WriteTextfile writes all gathered metrics to path in the text exposition
// format, for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.gatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
