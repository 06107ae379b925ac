// Package prometheus exposes live resource counts as Prometheus gauges.
//
// [NewCollector] bridges a [snapshot.Source] into a prometheus.Collector:
// every scrape walks the source and emits one gauge sample per category.
// Nothing is cached on the Prometheus side, so a scrape always sees the
// totals of the moment. Put a [snapshot.Reader] in front of a registry that
// several scrapers poll.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentohq/resourcetrack/core/snapshot"
)

// CollectorConfig configures a Collector.
type CollectorConfig[C comparable] struct {
	// Source to read at scrape time. Required.
	Source snapshot.Source[C]
	// Namespace prefixes the metric name (default: "resourcetrack").
	Namespace string
	// Name is the metric name (default: "resources").
	Name string
	// Help is the metric help text.
	Help string
	// Label renders a category into the value of the "category" label
	// (default: fmt.Sprint). Distinct categories must render to distinct
	// values, otherwise the scrape reports duplicate samples.
	Label func(C) string
}

// Collector reads its source at scrape time and emits one gauge per
// category.
type Collector[C comparable] struct {
	src   snapshot.Source[C]
	desc  *prometheus.Desc
	label func(C) string
}

var _ prometheus.Collector = (*Collector[string])(nil)

// NewCollector creates a Collector and registers it on reg when reg is
// non-nil. Pass a nil reg to own registration yourself. The source is
// required; everything else has defaults. Panics on a missing source, like
// registration itself panics on conflicts.
func NewCollector[C comparable](reg prometheus.Registerer, cfg CollectorConfig[C]) *Collector[C] {
	if cfg.Source == nil {
		panic("prometheus: CollectorConfig.Source is required")
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "resourcetrack"
	}
	if cfg.Name == "" {
		cfg.Name = "resources"
	}
	if cfg.Help == "" {
		cfg.Help = "Current live resource total per category."
	}
	if cfg.Label == nil {
		cfg.Label = func(id C) string { return fmt.Sprint(id) }
	}

	c := &Collector[C]{
		src: cfg.Source,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(cfg.Namespace, "", cfg.Name),
			cfg.Help,
			[]string{"category"},
			nil,
		),
		label: cfg.Label,
	}

	if reg != nil {
		reg.MustRegister(c)
	}

	return c
}

// Describe implements prometheus.Collector.
func (c *Collector[C]) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector. Every call takes one snapshot of
// the source.
func (c *Collector[C]) Collect(ch chan<- prometheus.Metric) {
	for _, cc := range c.src.ReadCounts() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(cc.Count), c.label(cc.Category))
	}
}
