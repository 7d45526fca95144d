package atomicsnap

import (
	"context"
	"fmt"
	"sync/atomic"
)

// State is the lifecycle state of an Updater.
type State int32

const (
	StateWaitingForStart State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateWaitingForStart:
		return "waiting_for_start"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Source produces the next payload for a writer.
type Source[T any] func() (T, error)

// Pacer throttles updater iterations. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Updater drives one Writer: after the start latch opens it repeatedly
// scans, draws a payload and publishes both, until the stop flag is set.
type Updater[T any] struct {
	w     *Writer[T]
	next  Source[T]
	pacer Pacer
	state atomic.Int32
	count atomic.Uint64
}

// NewUpdater creates an updater for w. pacer may be nil.
func NewUpdater[T any](w *Writer[T], next Source[T], pacer Pacer) *Updater[T] {
	return &Updater[T]{w: w, next: next, pacer: pacer}
}

// Index returns the index of the register this updater writes.
func (u *Updater[T]) Index() int {
	return u.w.index
}

// State returns the current lifecycle state.
func (u *Updater[T]) State() State {
	return State(u.state.Load())
}

// Count returns the number of completed updates.
func (u *Updater[T]) Count() uint64 {
	return u.count.Load()
}

// Run blocks on start, then updates until stop is raised. The stop flag
// is checked only between iterations; a started scan or store always
// completes. Cancelling ctx before the latch opens, or while the pacer
// waits, stops the updater without error. A failing Source ends the loop
// and its error is returned.
func (u *Updater[T]) Run(ctx context.Context, start *Latch, stop *StopFlag) error {
	defer u.state.Store(int32(StateStopped))

	if err := start.Wait(ctx); err != nil {
		return nil
	}
	if stop.Stopped() {
		return nil
	}
	u.state.Store(int32(StateRunning))

	for !stop.Stopped() {
		if u.pacer != nil {
			if err := u.pacer.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("updater %d: pace: %w", u.w.index, err)
			}
		}

		view := u.w.obj.Scan()
		payload, err := u.next()
		if err != nil {
			return fmt.Errorf("updater %d: next payload: %w", u.w.index, err)
		}
		u.w.publish(payload, view)
		u.count.Add(1)
	}
	return nil
}
