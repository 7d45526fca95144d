package atomicsnap

import (
	"fmt"
	"math"
	"sync/atomic"
)

// DefaultLabelModulus is the wraparound bound for register labels.
const DefaultLabelModulus uint64 = math.MaxUint32

// Observer receives scan and update events. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	ObserveScan(stats ScanStats)
	ObserveUpdate(writer int)
}

type options struct {
	labelModulus uint64
	observer     Observer
}

// Option configures an Object.
type Option func(*options)

// WithLabelModulus sets the label wraparound bound. Any modulus large
// enough that a register cannot wrap during one scan is correct.
func WithLabelModulus(m uint64) Option {
	return func(o *options) {
		o.labelModulus = m
	}
}

// WithObserver sets the observer notified on every scan and update.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// Object is an atomic snapshot object over N registers.
type Object[T any] struct {
	regs         []Register[T]
	claimed      []atomic.Bool
	labelModulus uint64
	observer     Observer

	// beforeCollect runs ahead of every collect after the first one of a
	// scan, with the number of collects done so far.
	beforeCollect func(collects int)
}

// New creates an object with n registers, each holding the zero value
// with label 0 and no embedded view.
func New[T any](n int, opts ...Option) (*Object[T], error) {
	if n < 1 || n > MaxWriters {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidWriterCount, n, MaxWriters)
	}

	o := options{labelModulus: DefaultLabelModulus}
	for _, opt := range opts {
		opt(&o)
	}
	if o.labelModulus < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLabelModulus, o.labelModulus)
	}

	obj := &Object[T]{
		regs:         make([]Register[T], n),
		claimed:      make([]atomic.Bool, n),
		labelModulus: o.labelModulus,
		observer:     o.observer,
	}
	for i := range obj.regs {
		obj.regs[i].Store(&Value[T]{})
	}
	return obj, nil
}

// Len returns the number of registers.
func (o *Object[T]) Len() int {
	return len(o.regs)
}

// LabelModulus returns the label wraparound bound.
func (o *Object[T]) LabelModulus() uint64 {
	return o.labelModulus
}

// Load returns the value currently held by register i.
// It panics if i is out of range.
func (o *Object[T]) Load(i int) *Value[T] {
	return o.regs[i].Load()
}

// Writer hands out the writer of register i. Each register has exactly
// one writer, so the second call for the same index fails.
func (o *Object[T]) Writer(i int) (*Writer[T], error) {
	if i < 0 || i >= len(o.regs) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	if !o.claimed[i].CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: %d", ErrWriterClaimed, i)
	}
	return &Writer[T]{obj: o, index: i, reg: &o.regs[i]}, nil
}

// collect loads every register in index order into dst, which must have
// length Len(). The result as a whole is not atomic.
func (o *Object[T]) collect(dst []*Value[T]) []*Value[T] {
	for i := range o.regs {
		dst[i] = o.regs[i].Load()
	}
	return dst
}
