// Package metrics counts persistence and study activity on a private registry.
// The registry is written out in node-exporter textfile format on exit.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder owns the registry and every collector. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	saves          *prometheus.CounterVec
	saveDuration   *prometheus.HistogramVec
	loadResets     *prometheus.CounterVec
	studySessions  *prometheus.CounterVec
	cardsPresented *prometheus.CounterVec
}

// New creates a recorder with all collectors registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iskaalaman_saves_total",
				Help: "Collection saves by outcome",
			},
			[]string{"collection", "result"},
		),
		saveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iskaalaman_save_duration_seconds",
				Help:    "Time spent rewriting a collection file",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection"},
		),
		loadResets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iskaalaman_load_resets_total",
				Help: "Collections reset to empty because their file was corrupt",
			},
			[]string{"collection"},
		),
		studySessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iskaalaman_study_sessions_total",
				Help: "Study sessions by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		cardsPresented: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iskaalaman_study_cards_presented_total",
				Help: "Flashcards shown during study sessions",
			},
			[]string{"mode"},
		),
	}

	r.registry.MustRegister(r.saves, r.saveDuration, r.loadResets, r.studySessions, r.cardsPresented)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveSave(collection string, took time.Duration, err error) {
	if r == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.saves.WithLabelValues(collection, result).Inc()
	r.saveDuration.WithLabelValues(collection).Observe(took.Seconds())
}

func (r *Recorder) LoadReset(collection string) {
	if r == nil {
		return
	}
	r.loadResets.WithLabelValues(collection).Inc()
}

func (r *Recorder) StudySession(mode, outcome string, presented int) {
	if r == nil {
		return
	}
	r.studySessions.WithLabelValues(mode, outcome).Inc()
	r.cardsPresented.WithLabelValues(mode).Add(float64(presented))
}

// WriteTextfile dumps the registry for a node-exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
