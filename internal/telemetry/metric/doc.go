// Package metric provides Prometheus metrics for atomsnap.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, scan/update instruments, exposition
//   - collector.go: live register labels and payloads read at scrape time
//
// The Registry implements atomicsnap.Observer, so it can be handed to an
// object directly. Metrics are written either through Handler (for an
// embedding process) or to a node-exporter textfile at the end of a run.
package metric
