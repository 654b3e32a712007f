package processor

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a point-in-time snapshot of the processor. The first group
// are gauges, the counters below them only grow.
type Metrics struct {
	CacheSize     int
	CacheCapacity int
	WorkerCount   int
	QueueLength   int
	Processing    int

	Decodes   int64
	CacheHits int64
	Failures  int64
}

// Metrics samples the current state. Values are individually consistent
// but not taken under one lock.
func (p *Processor) Metrics() Metrics {
	return Metrics{
		CacheSize:     p.cache.len(),
		CacheCapacity: p.cache.cap,
		WorkerCount:   p.workers,
		QueueLength:   len(p.tasks),
		Processing:    int(p.processing.Load()),
		Decodes:       p.decodes.Load(),
		CacheHits:     p.cacheHits.Load(),
		Failures:      p.failures.Load(),
	}
}

var (
	descCacheSize = prometheus.NewDesc(
		"dicom_processor_cache_entries",
		"Decoded results currently cached.",
		nil, nil)
	descCacheCapacity = prometheus.NewDesc(
		"dicom_processor_cache_capacity",
		"Configured cache capacity.",
		nil, nil)
	descWorkers = prometheus.NewDesc(
		"dicom_processor_workers",
		"Fixed worker pool size.",
		nil, nil)
	descQueueLength = prometheus.NewDesc(
		"dicom_processor_queue_length",
		"Tasks waiting for a worker.",
		nil, nil)
	descProcessing = prometheus.NewDesc(
		"dicom_processor_in_flight",
		"Decodes currently executing.",
		nil, nil)
	descDecodes = prometheus.NewDesc(
		"dicom_processor_decodes_total",
		"Pipeline runs since construction, successful or not.",
		nil, nil)
	descCacheHits = prometheus.NewDesc(
		"dicom_processor_cache_hits_total",
		"Decode calls served from the cache.",
		nil, nil)
	descFailures = prometheus.NewDesc(
		"dicom_processor_failures_total",
		"Pipeline runs that returned an error.",
		nil, nil)
)

type collector struct {
	p *Processor
}

// Collector exposes the processor's metrics for registration with a
// prometheus registry.
func (p *Processor) Collector() prometheus.Collector {
	return collector{p: p}
}

func (c collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descCacheSize
	ch <- descCacheCapacity
	ch <- descWorkers
	ch <- descQueueLength
	ch <- descProcessing
	ch <- descDecodes
	ch <- descCacheHits
	ch <- descFailures
}

func (c collector) Collect(ch chan<- prometheus.Metric) {
	m := c.p.Metrics()
	ch <- prometheus.MustNewConstMetric(descCacheSize, prometheus.GaugeValue, float64(m.CacheSize))
	ch <- prometheus.MustNewConstMetric(descCacheCapacity, prometheus.GaugeValue, float64(m.CacheCapacity))
	ch <- prometheus.MustNewConstMetric(descWorkers, prometheus.GaugeValue, float64(m.WorkerCount))
	ch <- prometheus.MustNewConstMetric(descQueueLength, prometheus.GaugeValue, float64(m.QueueLength))
	ch <- prometheus.MustNewConstMetric(descProcessing, prometheus.GaugeValue, float64(m.Processing))
	ch <- prometheus.MustNewConstMetric(descDecodes, prometheus.CounterValue, float64(m.Decodes))
	ch <- prometheus.MustNewConstMetric(descCacheHits, prometheus.CounterValue, float64(m.CacheHits))
	ch <- prometheus.MustNewConstMetric(descFailures, prometheus.CounterValue, float64(m.Failures))
}
