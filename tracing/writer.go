package tracing

import (
	"fmt"
	"io"
)

// A Writer stores records somewhere.
type Writer interface {
	Write(r Record)
	Flush()
	Close()
}

// TextWriter prints one line per record in the KIND(time) form.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a TextWriter that prints to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Write prints the record.
func (t *TextWriter) Write(r Record) {
	_, err := fmt.Fprintln(t.w, r.String())
	if err != nil {
		panic(err)
	}
}

// Flush does nothing. Lines are written as they come.
func (t *TextWriter) Flush() {}

// Close does nothing. The underlying writer belongs to the caller.
func (t *TextWriter) Close() {}
