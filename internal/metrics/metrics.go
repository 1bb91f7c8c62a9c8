package metrics

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EnrichmentEnqueued counts jobs handed to the task queue by the API.
	EnrichmentEnqueued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "linkhive",
		Name:      "enrichment_enqueued_total",
		Help:      "Number of enrichment jobs enqueued after link creation.",
	})

	// EnrichmentJobs counts processed jobs by outcome: enriched, skipped
	// or failed.
	EnrichmentJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkhive",
		Name:      "enrichment_jobs_total",
		Help:      "Number of enrichment jobs processed by outcome.",
	}, []string{"outcome"})
)

// RegisterCollectors registers all counters with the given registerer.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(EnrichmentEnqueued)
	reg.MustRegister(EnrichmentJobs)
}

var queueDepthDesc = prometheus.NewDesc(
	"linkhive_enrichment_queue_depth",
	"Number of enrichment jobs currently waiting in the task queue.",
	nil,
	nil,
)

// QueueLener reports the current length of a task queue.
type QueueLener interface {
	Len(ctx context.Context) (int64, error)
}

// QueueDepthCollector is a custom Prometheus collector that reads the
// queue depth on each scrape.
type QueueDepthCollector struct {
	queue QueueLener
}

// NewQueueDepthCollector creates a collector for the given queue.
func NewQueueDepthCollector(q QueueLener) *QueueDepthCollector {
	return &QueueDepthCollector{queue: q}
}

// Describe sends the metric descriptor to the channel.
func (c *QueueDepthCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queueDepthDesc
}

// Collect queries the queue for its depth and emits it as a gauge.
func (c *QueueDepthCollector) Collect(ch chan<- prometheus.Metric) {
	depth, err := c.queue.Len(context.Background())
	if err != nil {
		slog.Error("failed to collect queue depth", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(queueDepthDesc, prometheus.GaugeValue, float64(depth))
}
