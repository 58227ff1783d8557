// Package metrics records per-run pipeline metrics in a Prometheus registry
// and exports them once the batch job finishes.
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"

	"github.com/hejijunhao/sieve/internal/model"
)

const namespace = "sieve"

// Recorder implements engine.Observer on top of a private registry.
type Recorder struct {
	reg        *prometheus.Registry
	partitions *prometheus.CounterVec
	stages     *prometheus.HistogramVec
	lastRun    prometheus.Gauge
}

// NewRecorder creates a Recorder with every partition pre-initialised to
// zero so exports always carry the full label set.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		partitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partition_records_total",
			Help:      "Records that ended in each terminal partition.",
		}, []string{"partition"}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
	}
	r.reg.MustRegister(r.partitions, r.stages, r.lastRun)
	for _, p := range model.Partitions() {
		r.partitions.WithLabelValues(string(p))
	}
	return r
}

// ObserveStage records how long stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stages.WithLabelValues(stage).Observe(d.Seconds())
}

// AddPartition adds n records to partition p.
func (r *Recorder) AddPartition(p model.Partition, n int) {
	if n <= 0 {
		return
	}
	r.partitions.WithLabelValues(string(p)).Add(float64(n))
}

// MarkRun stamps the run completion time.
func (r *Recorder) MarkRun(t time.Time) {
	r.lastRun.Set(float64(t.Unix()))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Push sends the registry to a Pushgateway under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("metrics: push to %s: %w", url, err)
	}
	return nil
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// for the node exporter textfile collector. The file is replaced
// atomically through a temporary sibling.
func (r *Recorder) WriteTextfile(path string) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("metrics: textfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := expfmt.NewEncoder(tmp, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			tmp.Close()
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("metrics: textfile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("metrics: textfile: %w", err)
	}
	return nil
}
