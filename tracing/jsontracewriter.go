package tracing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// JSONTraceWriter writes records as a JSON array.
type JSONTraceWriter struct {
	w           io.Writer
	firstRecord bool
	closed      bool
}

// NewJSONTraceWriter creates a JSONTraceWriter that writes into w. The array
// is completed by Close.
func NewJSONTraceWriter(w io.Writer) *JSONTraceWriter {
	_, err := w.Write([]byte("[\n"))
	if err != nil {
		panic(err)
	}

	return &JSONTraceWriter{
		w:           w,
		firstRecord: true,
	}
}

// NewJSONTraceFile creates a JSONTraceWriter that writes into path + ".json".
// If path is empty, a unique name is generated. The file is completed and
// closed at exit if Close is not called before.
func NewJSONTraceFile(path string) *JSONTraceWriter {
	if path == "" {
		path = "crossroad_trace_" + xid.New().String()
	}

	filename := path + ".json"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "Recording trace in %s\n", filename)

	t := NewJSONTraceWriter(f)
	atexit.Register(t.Close)

	return t
}

// Write appends a record to the array.
func (t *JSONTraceWriter) Write(r Record) {
	if t.firstRecord {
		t.firstRecord = false
	} else {
		_, err := t.w.Write([]byte(",\n"))
		if err != nil {
			panic(err)
		}
	}

	b, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}

	_, err = t.w.Write(b)
	if err != nil {
		panic(err)
	}
}

// Flush does nothing. Records are written as they come.
func (t *JSONTraceWriter) Flush() {}

// Close ends the JSON array and closes the underlying writer if it can be
// closed.
func (t *JSONTraceWriter) Close() {
	if t.closed {
		return
	}
	t.closed = true

	_, err := t.w.Write([]byte("\n]\n"))
	if err != nil {
		panic(err)
	}

	if c, ok := t.w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			panic(err)
		}
	}
}
