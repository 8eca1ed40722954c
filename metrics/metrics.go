// Package metrics exposes event bus statistics as Prometheus metrics.
// The core bus has no metrics dependency; callers opt in by registering
// a Collector with their registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/eventbus"
)

// Collector implements prometheus.Collector over Bus.Stats snapshots.
type Collector struct {
	bus *eventbus.Bus

	emittedDesc       *prometheus.Desc
	subscriptionsDesc *prometheus.Desc
	middlewareDesc    *prometheus.Desc
	eventTypesDesc    *prometheus.Desc
	errorsDesc        *prometheus.Desc
}

// NewCollector creates a collector for the given bus.
func NewCollector(bus *eventbus.Bus) *Collector {
	return &Collector{
		bus: bus,
		emittedDesc: prometheus.NewDesc(
			"eventbus_events_emitted_total",
			"Total number of successfully emitted events.",
			nil, nil,
		),
		subscriptionsDesc: prometheus.NewDesc(
			"eventbus_active_subscriptions",
			"Current number of live subscriptions.",
			nil, nil,
		),
		middlewareDesc: prometheus.NewDesc(
			"eventbus_middleware_installed",
			"Number of installed middlewares.",
			nil, nil,
		),
		eventTypesDesc: prometheus.NewDesc(
			"eventbus_event_types",
			"Number of distinct event types seen.",
			nil, nil,
		),
		errorsDesc: prometheus.NewDesc(
			"eventbus_errors_total",
			"Total number of errors recorded during emission.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.emittedDesc
	ch <- c.subscriptionsDesc
	ch <- c.middlewareDesc
	ch <- c.eventTypesDesc
	ch <- c.errorsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.bus.Stats()

	ch <- prometheus.MustNewConstMetric(c.emittedDesc, prometheus.CounterValue, float64(stats.TotalEventsEmitted))
	ch <- prometheus.MustNewConstMetric(c.subscriptionsDesc, prometheus.GaugeValue, float64(stats.ActiveSubscriptions))
	ch <- prometheus.MustNewConstMetric(c.middlewareDesc, prometheus.GaugeValue, float64(stats.MiddlewareCount))
	ch <- prometheus.MustNewConstMetric(c.eventTypesDesc, prometheus.GaugeValue, float64(len(stats.EventTypes)))
	ch <- prometheus.MustNewConstMetric(c.errorsDesc, prometheus.CounterValue, float64(len(stats.Errors)))
}
