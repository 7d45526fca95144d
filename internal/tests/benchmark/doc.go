// Package benchmark provides scale benchmarks for the snapshot object.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Sweep the full writer range:
//
//	go test -bench=. -benchmem -benchtime=5s ./internal/tests/benchmark/... -full
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
