// Package atomicsnap provides a wait-free atomic snapshot object.
//
// An Object holds N single-writer/multi-reader registers. Each register
// is owned by exactly one Writer; any goroutine may Scan all registers
// and receive a view that is linearizable with respect to concurrent
// updates, without taking a lock:
//
//   - Register: atomic pointer to an immutable, versioned Value
//   - Collect: one Load per register, in index order
//   - Scan: double collect; a writer seen moving twice lends its
//     embedded view instead of the scanner retrying
//   - Update: scan, then publish payload and view in a single store
//
// Usage:
//
//	obj, err := atomicsnap.New[int](3)
//	w, err := obj.Writer(1)
//	w.Update(7)
//	view := obj.Scan() // [0 7 0]
//
// Wait-freedom:
//
// Every index can be marked as moved at most once per scan, and a second
// move at the same index ends the scan, so a Scan performs at most N+2
// collects no matter how fast the writers run.
package atomicsnap
