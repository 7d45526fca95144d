// Package main provides the entry point for atomsnap.
//
// atomsnap starts one updater goroutine per register of a wait-free
// atomic snapshot object, lets them scan and update for a fixed duration
// and prints how many updates completed:
//
//	atomsnap run 8
//	atomsnap run -d 10s -o table --metrics-file /var/lib/node_exporter/atomsnap.prom
//	atomsnap config show
package main
