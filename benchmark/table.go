package benchmark

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sartorproj/perfdash/record"
)

// Column names of a fortio benchmark CSV.
const (
	ColumnStartTime      = "StartTime"
	ColumnActualDuration = "ActualDuration"
	ColumnLabels         = "Labels"
	ColumnNumThreads     = "NumThreads"
	ColumnActualQPS      = "ActualQPS"
	ColumnP50            = "p50"
	ColumnP90            = "p90"
	ColumnP99            = "p99"
	ColumnP999           = "p999"
	ColumnServerProxyCPU = "cpu_mili_avg_fortioserver_deployment_proxy"
	ColumnServerProxyMem = "mem_MB_max_fortioserver_deployment_proxy"
)

// RequiredColumns must be present in every benchmark table.
var RequiredColumns = []string{ColumnLabels, ColumnActualQPS, ColumnNumThreads}

var (
	// ErrMissingColumn is returned when a required column is not in the header.
	ErrMissingColumn = errors.New("benchmark: required column missing")
	// ErrNotNumeric is returned when a queried cell cannot be read as a number.
	ErrNotNumeric = errors.New("benchmark: cell is not numeric")
)

// Table is a header-keyed benchmark result table.
type Table struct {
	Source  string
	Columns []string
	Rows    []record.Record
}

// Load reads a benchmark table from r.
func Load(r io.Reader) (*Table, error) {
	recs, err := record.LoadHeader(r, nil)
	if err != nil {
		return nil, err
	}
	return FromRecords(recs)
}

// LoadFile reads a benchmark table from a file.
func LoadFile(filename string) (*Table, error) {
	recs, err := record.LoadHeaderFile(filename, nil)
	if err != nil {
		return nil, err
	}
	t, err := FromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	t.Source = filename
	return t, nil
}

// FromRecords builds a table from header-keyed records. A table without
// rows is valid and answers every query with no match.
func FromRecords(recs []record.Record) (*Table, error) {
	t := &Table{Rows: recs}
	if len(recs) == 0 {
		return t, nil
	}
	schema := recs[0].Schema()
	for _, c := range RequiredColumns {
		if _, ok := schema.Index(c); !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}
	t.Columns = schema.Fields()
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries a column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Query selects benchmark rows.
type Query struct {
	QPS         float64
	Threads     int
	LabelSuffix string
	Column      string
}

func (q Query) String() string {
	return fmt.Sprintf("ActualQPS==%g NumThreads==%d Labels=*%s [%s]", q.QPS, q.Threads, q.LabelSuffix, q.Column)
}

// Find returns the first row matching q's QPS, thread count and label suffix.
// Rows whose selector cells are unreadable never match.
func (t *Table) Find(q Query) (record.Record, bool) {
	for _, rec := range t.Rows {
		qps, err := rec.Float(ColumnActualQPS)
		if err != nil || qps != q.QPS {
			continue
		}
		threads, err := rec.Int(ColumnNumThreads)
		if err != nil || threads != q.Threads {
			continue
		}
		labels, err := rec.String(ColumnLabels)
		if err != nil || !strings.HasSuffix(labels, q.LabelSuffix) {
			continue
		}
		return rec, true
	}
	return record.Record{}, false
}

// Value returns q.Column of the first matching row. ok is false when no row
// matches, the column is absent or the cell is empty, "null", NaN or
// infinite.
func (t *Table) Value(q Query) (float64, bool, error) {
	rec, found := t.Find(q)
	if !found {
		return 0, false, nil
	}
	raw, err := rec.String(q.Column)
	if errors.Is(err, record.ErrUnknownField) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if raw == "" || raw == "null" {
		return 0, false, nil
	}
	v, err := rec.Float(q.Column)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s: %v", ErrNotNumeric, q, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, nil
	}
	return v, true, nil
}
