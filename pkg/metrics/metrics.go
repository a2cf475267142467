// Package metrics exposes Prometheus counters for generation, packaging and
// saving. Recorders are safe to call on a nil *Recorder.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder struct {
	generations *prometheus.CounterVec
	durations   prometheus.Observer
	packaging   *prometheus.CounterVec
	saves       *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	defaultInst *Recorder
)

// Default returns the process wide recorder registered with the default
// Prometheus registry.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultInst = New(prometheus.DefaultRegisterer)
	})
	return defaultInst
}

// New registers a recorder with reg
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plugingenius",
			Subsystem: "generator",
			Name:      "generations_total",
			Help:      "Plugins generated, labeled by category",
		}, []string{"category"}),
		durations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plugingenius",
			Subsystem: "generator",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering plugin templates, excluding the simulated delay",
			Buckets:   prometheus.DefBuckets,
		}),
		packaging: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plugingenius",
			Subsystem: "packager",
			Name:      "downloads_total",
			Help:      "Download paths attempted, labeled by path and result",
		}, []string{"path", "result"}),
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plugingenius",
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Project saves, labeled by result",
		}, []string{"result"}),
	}
}

// RecordGeneration counts one generated artifact
func (r *Recorder) RecordGeneration(category string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(category).Inc()
	r.durations.Observe(elapsed.Seconds())
}

// RecordDownload counts one attempt of a download path ("text" or "archive")
func (r *Recorder) RecordDownload(path string, err error) {
	if r == nil {
		return
	}
	r.packaging.WithLabelValues(path, result(err)).Inc()
}

// RecordSave counts one project save
func (r *Recorder) RecordSave(err error) {
	if r == nil {
		return
	}
	r.saves.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
