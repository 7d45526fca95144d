package atomicsnap

import (
	"context"
	"sync"
	"sync/atomic"
)

// Latch is a one-shot start barrier. Every waiter is released together
// by a single Release call.
type Latch struct {
	once sync.Once
	ch   chan struct{}
}

// NewLatch creates a closed latch.
func NewLatch() *Latch {
	return &Latch{ch: make(chan struct{})}
}

// Release opens the latch. Calls after the first have no effect.
func (l *Latch) Release() {
	l.once.Do(func() {
		close(l.ch)
	})
}

// Released reports whether Release has been called.
func (l *Latch) Released() bool {
	select {
	case <-l.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the latch is released or ctx is done.
// A released latch wins over a cancelled context.
func (l *Latch) Wait(ctx context.Context) error {
	select {
	case <-l.ch:
		return nil
	default:
	}

	select {
	case <-l.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StopFlag is a cooperative termination signal, polled by updaters
// between iterations.
type StopFlag struct {
	done atomic.Bool
}

// Stop raises the flag.
func (s *StopFlag) Stop() {
	s.done.Store(true)
}

// Stopped reports whether the flag is raised.
func (s *StopFlag) Stopped() bool {
	return s.done.Load()
}
