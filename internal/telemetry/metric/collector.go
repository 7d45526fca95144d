package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/atomsnap-go/pkg/atomicsnap"
)

// Collector exports the current label and payload of every register.
// Values are read with one Load per register at scrape time.
type Collector struct {
	obj     *atomicsnap.Object[int]
	label   *prometheus.Desc
	payload *prometheus.Desc
}

// NewCollector creates a collector for obj.
func NewCollector(obj *atomicsnap.Object[int]) *Collector {
	return &Collector{
		obj: obj,
		label: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "register", "label"),
			"Current version label of the register.",
			[]string{"writer"}, nil,
		),
		payload: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "register", "payload"),
			"Current payload of the register.",
			[]string{"writer"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.label
	ch <- c.payload
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for i := 0; i < c.obj.Len(); i++ {
		v := c.obj.Load(i)
		w := strconv.Itoa(i)
		ch <- prometheus.MustNewConstMetric(c.label, prometheus.GaugeValue, float64(v.Label()), w)
		ch <- prometheus.MustNewConstMetric(c.payload, prometheus.GaugeValue, float64(v.Payload()), w)
	}
}
