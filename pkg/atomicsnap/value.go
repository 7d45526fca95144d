package atomicsnap

import "slices"

// Value is one published version of a register.
//
// A Value is never modified after it is stored, so readers may keep and
// share it freely after the register has moved on.
type Value[T any] struct {
	label   uint64
	payload T
	view    []T
}

func newValue[T any](label uint64, payload T, view []T) *Value[T] {
	return &Value[T]{label: label, payload: payload, view: view}
}

// Label returns the version label. Labels wrap around, so they are only
// meaningful for equality checks against the same register.
func (v *Value[T]) Label() uint64 {
	return v.label
}

// Payload returns the value the writer published.
func (v *Value[T]) Payload() T {
	return v.payload
}

// View returns a copy of the snapshot the writer took before publishing,
// or nil for a register that was never written.
func (v *Value[T]) View() []T {
	if v.view == nil {
		return nil
	}
	return slices.Clone(v.view)
}

// HasView reports whether the value carries an embedded snapshot.
func (v *Value[T]) HasView() bool {
	return v.view != nil
}
