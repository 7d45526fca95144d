package output

import (
	"fmt"
	"io"
)

// Plainer is implemented by values with a bare one-line rendering.
type Plainer interface {
	Plain() string
}

// PlainFormatter writes Plain() when available and %v otherwise.
type PlainFormatter struct{}

// Format writes data followed by a newline.
func (f *PlainFormatter) Format(w io.Writer, data any) error {
	if p, ok := data.(Plainer); ok {
		_, err := fmt.Fprintln(w, p.Plain())
		return err
	}
	_, err := fmt.Fprintln(w, data)
	return err
}
