package tracing

import (
	"context"

	"github.com/sarchlab/crossroad/datarecording"
	"github.com/sarchlab/crossroad/intersection"
)

// DBTraceReader reads the records stored by a DBTraceWriter.
type DBTraceReader struct {
	reader datarecording.DataReader
}

// NewDBTraceReader creates a DBTraceReader on top of a DataReader.
func NewDBTraceReader(reader datarecording.DataReader) *DBTraceReader {
	reader.MapTable(TraceTableName, Record{})

	return &DBTraceReader{reader: reader}
}

// ListRecords returns up to limit records, starting from offset, in
// processing order. A limit of 0 returns every record after offset. The
// total number of stored records is returned with them.
func (r *DBTraceReader) ListRecords(
	ctx context.Context,
	offset, limit int,
) ([]Record, int, error) {
	results, total, err := r.reader.Query(ctx, TraceTableName,
		datarecording.QueryParams{
			OrderBy: "Seq",
			Limit:   limit,
			Offset:  offset,
		})
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, 0, len(results))
	for _, res := range results {
		records = append(records, *res.(*Record))
	}

	return records, total, nil
}

// ListRecordsOfKind returns the records of one kind in processing order.
func (r *DBTraceReader) ListRecordsOfKind(
	ctx context.Context,
	kind intersection.Kind,
) ([]Record, error) {
	results, _, err := r.reader.Query(ctx, TraceTableName,
		datarecording.QueryParams{
			Where:   "Kind = ?",
			Args:    []any{string(kind)},
			OrderBy: "Seq",
		})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(results))
	for _, res := range results {
		records = append(records, *res.(*Record))
	}

	return records, nil
}
