package tracing

import (
	"github.com/sarchlab/crossroad/datarecording"
)

// TraceTableName is the table that DBTraceWriter writes into.
const TraceTableName = "trace"

// DBTraceWriter stores records into a DataRecorder.
type DBTraceWriter struct {
	recorder datarecording.DataRecorder
}

// NewDBTraceWriter creates the trace table in the recorder and returns a
// writer that fills it.
func NewDBTraceWriter(recorder datarecording.DataRecorder) *DBTraceWriter {
	recorder.CreateTable(TraceTableName, Record{})

	return &DBTraceWriter{recorder: recorder}
}

// Write buffers a record in the recorder.
func (t *DBTraceWriter) Write(r Record) {
	t.recorder.InsertData(TraceTableName, r)
}

// Flush writes the buffered records into the database.
func (t *DBTraceWriter) Flush() {
	t.recorder.Flush()
}

// Close flushes the records. The recorder is closed by its owner.
func (t *DBTraceWriter) Close() {
	t.recorder.Flush()
}
