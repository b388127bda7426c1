// Package metrics exposes runner lifecycle events as Prometheus metrics on a
// private registry, written out in the node_exporter textfile format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pkt.systems/seqrun/port"
)

const namespace = "seqrun"

// Recorder implements port.Observer.
type Recorder struct {
	registry      *prometheus.Registry
	started       prometheus.Counter
	startFailures *prometheus.CounterVec
	exits         *prometheus.CounterVec
	duration      prometheus.Histogram
}

var _ port.Observer = (*Recorder)(nil)

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_started_total",
			Help:      "Number of child tasks started.",
		}),
		startFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_start_failures_total",
			Help:      "Number of tasks that could not be started, by reason.",
		}, []string{"reason"}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_exits_total",
			Help:      "Number of reaped tasks, by exit code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Wall time from spawn to reap.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	r.registry.MustRegister(r.started, r.startFailures, r.exits, r.duration)
	return r
}

func (r *Recorder) TaskStarted(path string, pid int) {
	r.started.Inc()
}

func (r *Recorder) TaskStartFailed(path string, reason string) {
	r.startFailures.WithLabelValues(reason).Inc()
}

func (r *Recorder) TaskExited(path string, exitCode int, elapsed time.Duration) {
	r.exits.WithLabelValues(strconv.Itoa(exitCode)).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Gatherer returns the registry backing the recorder.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes all metrics to filename.
func (r *Recorder) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.registry)
}
