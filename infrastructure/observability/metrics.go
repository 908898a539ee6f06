package observability

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Collector holds the Prometheus metrics of the design history
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Timeline metrics
	CommittedTotal   prometheus.Counter
	SkippedTotal     *prometheus.CounterVec
	EvictedTotal     prometheus.Counter
	DiscardedTotal   prometheus.Counter
	NavigationsTotal *prometheus.CounterVec

	// Timeline state
	TimelineLength prometheus.Gauge
	TimelineCursor prometheus.Gauge

	// Capture cost
	CaptureDuration prometheus.Histogram
}

// NewCollector creates a new metrics collector with the given namespace on
// its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		CommittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_committed_total",
			Help:      "Total number of snapshots recorded in the history",
		}),
		SkippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_skipped_total",
			Help:      "Total number of edits not recorded, by reason",
		}, []string{"reason"}),
		EvictedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_evicted_total",
			Help:      "Total number of snapshots dropped to respect the history size",
		}),
		DiscardedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "branches_discarded_total",
			Help:      "Total number of redo branches discarded by a diverging edit",
		}),
		NavigationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Total number of undo/redo requests, by direction and result",
		}, []string{"direction", "result"}),
		TimelineLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timeline_length",
			Help:      "Number of snapshots currently stored",
		}),
		TimelineCursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timeline_cursor",
			Help:      "Index of the current snapshot, -1 when empty",
		}),
		CaptureDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_capture_duration_seconds",
			Help:      "Time spent cloning the design into a snapshot",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	c.TimelineCursor.Set(-1)

	registry.MustRegister(
		c.CommittedTotal,
		c.SkippedTotal,
		c.EvictedTotal,
		c.DiscardedTotal,
		c.NavigationsTotal,
		c.TimelineLength,
		c.TimelineCursor,
		c.CaptureDuration,
	)
	return c
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) SnapshotCommitted(capture time.Duration) {
	c.CommittedTotal.Inc()
	c.CaptureDuration.Observe(capture.Seconds())
}

func (c *Collector) CommitSkipped(reason string) {
	c.SkippedTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) SnapshotsEvicted(n int) {
	c.EvictedTotal.Add(float64(n))
}

func (c *Collector) BranchDiscarded(int) {
	c.DiscardedTotal.Inc()
}

func (c *Collector) Navigation(direction string, moved bool) {
	result := "moved"
	if !moved {
		result = "unavailable"
	}
	c.NavigationsTotal.WithLabelValues(direction, result).Inc()
}

func (c *Collector) TimelineState(length, cursor int) {
	c.TimelineLength.Set(float64(length))
	c.TimelineCursor.Set(float64(cursor))
}

// WriteText writes every metric in the Prometheus text format
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
