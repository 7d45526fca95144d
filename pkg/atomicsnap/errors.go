package atomicsnap

import "errors"

// MaxWriters bounds the number of registers an Object may hold.
const MaxWriters = 4096

var (
	// ErrInvalidWriterCount is returned when the writer count is outside [1, MaxWriters].
	ErrInvalidWriterCount = errors.New("atomicsnap: invalid writer count")

	// ErrInvalidLabelModulus is returned when the label modulus is below 2.
	ErrInvalidLabelModulus = errors.New("atomicsnap: label modulus must be at least 2")

	// ErrIndexOutOfRange is returned for a register index outside the object.
	ErrIndexOutOfRange = errors.New("atomicsnap: register index out of range")

	// ErrWriterClaimed is returned when a register's writer was already handed out.
	ErrWriterClaimed = errors.New("atomicsnap: writer already claimed")

	// ErrViewLength is returned when a published view does not cover every register.
	ErrViewLength = errors.New("atomicsnap: view length does not match register count")
)
