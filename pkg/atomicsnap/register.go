package atomicsnap

import "sync/atomic"

// Register is a single-writer/multi-reader cell holding the current Value.
//
// Load and Store never block. A Value returned by Load stays valid after
// a later Store replaces it; the garbage collector keeps it alive for as
// long as any reader holds it.
type Register[T any] struct {
	ptr atomic.Pointer[Value[T]]
}

// Load returns the currently installed value.
func (r *Register[T]) Load() *Value[T] {
	return r.ptr.Load()
}

// Store installs v as the current value. v must not be modified afterwards.
func (r *Register[T]) Store(v *Value[T]) {
	r.ptr.Store(v)
}
