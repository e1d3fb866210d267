package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter is a trace writer that can store the records into a CSV
// file.
type CSVTraceWriter struct {
	path string
	file *os.File

	records    []Record
	bufferSize int
	closed     bool
}

// NewCSVTraceWriter creates a new CSVTraceWriter. The ".csv" extension is
// appended to path.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Filename returns the name of the CSV file.
func (t *CSVTraceWriter) Filename() string {
	return t.path + ".csv"
}

// Init creates the trace csv file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "crossroad_trace_" + xid.New().String()
	}

	filename := t.Filename()
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "Seq, ID, Kind, Time, Green, WaitingCars\n")

	atexit.Register(t.Close)
}

// Write buffers a record.
func (t *CSVTraceWriter) Write(r Record) {
	t.records = append(t.records, r)
	if len(t.records) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered records to the CSV file.
func (t *CSVTraceWriter) Flush() {
	if t.closed {
		return
	}

	for _, r := range t.records {
		fmt.Fprintf(t.file, "%d, %s, %s, %s, %t, %d\n",
			r.Seq,
			r.EventID,
			r.Kind,
			r.Time,
			r.Green,
			r.WaitingCars,
		)
	}

	t.records = nil
}

// Close flushes the records and closes the file.
func (t *CSVTraceWriter) Close() {
	if t.closed {
		return
	}

	t.Flush()
	t.closed = true

	err := t.file.Close()
	if err != nil {
		panic(err)
	}
}
