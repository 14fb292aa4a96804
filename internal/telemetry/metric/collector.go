package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector reports whether a session is currently stored.
// The value is read at scrape time.
type Collector struct {
	authenticated func() bool
	desc          *prometheus.Desc
}

// NewCollector creates a session collector backed by authenticated.
func NewCollector(authenticated func() bool) *Collector {
	return &Collector{
		authenticated: authenticated,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "authenticated"),
			"1 when a session token is stored, 0 otherwise.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	v := 0.0
	if c.authenticated() {
		v = 1
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, v)
}
