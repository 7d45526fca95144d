package metric

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/atomsnap-go/pkg/atomicsnap"
)

const namespace = "atomsnap"

// Registry holds all application metrics.
//
// Per-writer children are resolved once in SetWriters so the update path
// does not pay for a label lookup.
type Registry struct {
	registry *prometheus.Registry

	ScansTotal   *prometheus.CounterVec
	ScanCollects prometheus.Histogram
	StealsTotal  *prometheus.CounterVec
	UpdatesTotal *prometheus.CounterVec
	Writers      prometheus.Gauge

	RunsTotal      prometheus.Counter
	LastRunUpdates prometheus.Gauge
	LastRunRate    prometheus.Gauge

	cleanScans  prometheus.Counter
	stolenScans prometheus.Counter
	updates     []prometheus.Counter
	steals      []prometheus.Counter
}

// NewRegistry creates a registry with all atomsnap metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Completed scans by outcome (clean double collect or stolen view).",
		}, []string{"outcome"}),
		ScanCollects: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_collects",
			Help:      "Collects performed per scan.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 10),
		}),
		StealsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_steals_total",
			Help:      "Scans that returned the embedded view of a writer.",
		}, []string{"writer"}),
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Register stores per writer.",
		}, []string{"writer"}),
		Writers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "writers",
			Help:      "Number of registers in the snapshot object.",
		}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed benchmark runs.",
		}),
		LastRunUpdates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_updates",
			Help:      "Total updates of the last completed run.",
		}),
		LastRunRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_updates_per_second",
			Help:      "Update throughput of the last completed run.",
		}),
	}

	reg.MustRegister(
		r.ScansTotal,
		r.ScanCollects,
		r.StealsTotal,
		r.UpdatesTotal,
		r.Writers,
		r.RunsTotal,
		r.LastRunUpdates,
		r.LastRunRate,
	)

	r.cleanScans = r.ScansTotal.WithLabelValues("clean")
	r.stolenScans = r.ScansTotal.WithLabelValues("stolen")
	return r
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Register adds an extra collector, such as the one from NewCollector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// WriteTextfile writes the current metrics in text exposition format,
// atomically replacing path.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// SetWriters sizes the per-writer instruments. It must be called before
// the object starts reporting updates.
func (r *Registry) SetWriters(n int) {
	r.Writers.Set(float64(n))
	r.updates = make([]prometheus.Counter, n)
	r.steals = make([]prometheus.Counter, n)
	for i := 0; i < n; i++ {
		w := strconv.Itoa(i)
		r.updates[i] = r.UpdatesTotal.WithLabelValues(w)
		r.steals[i] = r.StealsTotal.WithLabelValues(w)
	}
}

// ObserveScan implements atomicsnap.Observer.
func (r *Registry) ObserveScan(stats atomicsnap.ScanStats) {
	r.ScanCollects.Observe(float64(stats.Collects))
	if !stats.Stolen {
		r.cleanScans.Inc()
		return
	}
	r.stolenScans.Inc()
	if stats.StolenFrom < len(r.steals) {
		r.steals[stats.StolenFrom].Inc()
	} else {
		r.StealsTotal.WithLabelValues(strconv.Itoa(stats.StolenFrom)).Inc()
	}
}

// ObserveUpdate implements atomicsnap.Observer.
func (r *Registry) ObserveUpdate(writer int) {
	if writer < len(r.updates) {
		r.updates[writer].Inc()
		return
	}
	r.UpdatesTotal.WithLabelValues(strconv.Itoa(writer)).Inc()
}

// RecordRun records the outcome of a finished run.
func (r *Registry) RecordRun(totalUpdates uint64, perSecond float64) {
	r.RunsTotal.Inc()
	r.LastRunUpdates.Set(float64(totalUpdates))
	r.LastRunRate.Set(perSecond)
}
