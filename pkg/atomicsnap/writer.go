package atomicsnap

import "fmt"

// Writer is the only handle allowed to store into one register.
// A Writer must not be used from more than one goroutine at a time.
type Writer[T any] struct {
	obj   *Object[T]
	index int
	reg   *Register[T]
}

// Index returns the register index this writer owns.
func (w *Writer[T]) Index() int {
	return w.index
}

// Update scans the object, then publishes payload together with that
// scan. It returns the embedded view.
func (w *Writer[T]) Update(payload T) []T {
	view := w.obj.Scan()
	w.publish(payload, view)
	return view
}

// Store publishes payload with a view the caller obtained from Scan.
// The object takes ownership of view; the caller must not modify it.
func (w *Writer[T]) Store(payload T, view []T) error {
	if len(view) != len(w.obj.regs) {
		return fmt.Errorf("%w: got %d, want %d", ErrViewLength, len(view), len(w.obj.regs))
	}
	w.publish(payload, view)
	return nil
}

// Current returns the value currently held by the owned register.
func (w *Writer[T]) Current() *Value[T] {
	return w.reg.Load()
}

func (w *Writer[T]) publish(payload T, view []T) {
	prev := w.reg.Load()
	label := (prev.label + 1) % w.obj.labelModulus
	w.reg.Store(newValue(label, payload, view))
	if w.obj.observer != nil {
		w.obj.observer.ObserveUpdate(w.index)
	}
}
