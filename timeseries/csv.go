package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sartorproj/perfdash/record"
)

// MissingValue is the sentinel marking an absent measurement.
const MissingValue = "null"

// Fields is the fixed field list of a series CSV. Extra trailing columns
// become sample metadata.
var Fields = []string{"year", "month", "day", "value"}

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Name          string   // Series name (default: file base name)
	Delimiter     rune     // Field delimiter (default: ',')
	SkipRows      int      // Number of rows to skip before the header
	MissingValues []string // Values treated as missing (default: "null")
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Delimiter:     ',',
		MissingValues: []string{MissingValue},
	}
}

// LoadCSV loads a series from a CSV file of year,month,day,value rows.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if series.Name == "" {
		series.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return series, nil
}

// LoadCSVFromReader loads a series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	recs, err := record.Load(r, Fields, &record.Options{
		Delimiter:        opts.Delimiter,
		SkipRows:         opts.SkipRows,
		TrimLeadingSpace: true,
	})
	if err != nil {
		return nil, err
	}

	missing := make(map[string]bool, len(opts.MissingValues))
	for _, m := range opts.MissingValues {
		missing[m] = true
	}

	series := &Series{Name: opts.Name, Samples: make([]Sample, 0, len(recs))}
	for _, rec := range recs {
		sm, err := sampleFromRecord(rec, missing)
		if err != nil {
			return nil, err
		}
		series.Append(sm)
	}
	return series, nil
}

func sampleFromRecord(rec record.Record, missing map[string]bool) (Sample, error) {
	var sm Sample
	var err error
	if sm.Year, err = rec.Int("year"); err != nil {
		return sm, err
	}
	if sm.Month, err = rec.Int("month"); err != nil {
		return sm, err
	}
	if sm.Day, err = rec.Int("day"); err != nil {
		return sm, err
	}
	if _, err := sm.Date(); err != nil {
		return sm, fmt.Errorf("line %d: %w", rec.Line, err)
	}

	raw, err := rec.String("value")
	if err != nil {
		return sm, err
	}
	if missing[raw] {
		sm.Missing = true
	} else {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(v) {
			return sm, fmt.Errorf("line %d: %w: %q", rec.Line, ErrInvalidValue, raw)
		}
		sm.Value = v
	}
	if len(rec.Extra) > 0 {
		sm.Meta = append([]string(nil), rec.Extra...)
	}
	return sm, nil
}

// SaveCSV saves a series to a CSV file in the format LoadCSV reads.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(series, file); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV writes a series as CSV with a header row. Invalid series are
// rejected before anything is written.
func WriteCSV(series *Series, w io.Writer) error {
	if err := series.Validate(); err != nil {
		return err
	}
	writer := csv.NewWriter(w)

	metaCols := 0
	for _, sm := range series.Samples {
		if len(sm.Meta) > metaCols {
			metaCols = len(sm.Meta)
		}
	}
	header := append([]string(nil), Fields...)
	for i := 0; i < metaCols; i++ {
		header = append(header, "meta"+strconv.Itoa(i+1))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, sm := range series.Samples {
		value := MissingValue
		if !sm.Missing {
			value = strconv.FormatFloat(sm.Value, 'f', -1, 64)
		}
		row := []string{
			strconv.Itoa(sm.Year),
			strconv.Itoa(sm.Month),
			strconv.Itoa(sm.Day),
			value,
		}
		for i := 0; i < metaCols; i++ {
			if i < len(sm.Meta) {
				row = append(row, sm.Meta[i])
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
