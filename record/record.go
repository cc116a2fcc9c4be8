package record

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cast"
)

var (
	// ErrNoHeader is returned when the input ends before a header row.
	ErrNoHeader = errors.New("record: input has no header row")
	// ErrEmptySchema is returned for an empty field list.
	ErrEmptySchema = errors.New("record: empty field list")
	// ErrDuplicateField is returned when a field name appears twice.
	ErrDuplicateField = errors.New("record: duplicate field name")
	// ErrShortRow is returned when a row has fewer fields than the schema.
	ErrShortRow = errors.New("record: row has fewer fields than the schema")
	// ErrUnknownField is returned when a record is asked for a field outside its schema.
	ErrUnknownField = errors.New("record: unknown field")
	// ErrNotInteger is returned by Record.Int for fractional values.
	ErrNotInteger = errors.New("record: value is not an integer")
)

// Options holds options for record loading.
type Options struct {
	Delimiter        rune // Field delimiter (default: ',')
	Comment          rune // Lines starting with this rune are ignored (default: none)
	SkipRows         int  // Number of rows to skip before the header
	TrimLeadingSpace bool // Trim leading white space of fields (default: true)
}

// DefaultOptions returns default options for record loading.
func DefaultOptions() *Options {
	return &Options{
		Delimiter:        ',',
		TrimLeadingSpace: true,
	}
}

// Schema is an ordered, fixed list of field names.
type Schema struct {
	fields []string
	index  map[string]int
}

// NewSchema creates a schema from field names.
func NewSchema(fields ...string) (*Schema, error) {
	if len(fields) == 0 {
		return nil, ErrEmptySchema
	}
	s := &Schema{
		fields: make([]string, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if _, dup := s.index[f]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f)
		}
		s.fields[i] = f
		s.index[f] = i
	}
	return s, nil
}

// Fields returns a copy of the field names in order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Index returns the position of a field.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Record is one data row mapped positionally onto a schema.
type Record struct {
	Line   int      // 1-based line number in the source
	Extra  []string // Trailing fields beyond the schema
	schema *Schema
	values []string
}

// Schema returns the record's schema.
func (r Record) Schema() *Schema {
	return r.schema
}

// Get returns the raw value of a field.
func (r Record) Get(name string) (string, bool) {
	if r.schema == nil {
		return "", false
	}
	i, ok := r.schema.Index(name)
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// String returns the trimmed value of a field.
func (r Record) String(name string) (string, error) {
	v, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return strings.TrimSpace(strings.Trim(v, "\"")), nil
}

// Float returns a field parsed as a float64.
func (r Record) Float(name string) (float64, error) {
	v, err := r.String(name)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("line %d field %q: %w", r.Line, name, err)
	}
	return f, nil
}

// Int returns a field parsed as an integer. "16" and "16.0" are both accepted.
func (r Record) Int(name string) (int, error) {
	// cast.ToIntE parses with base 0, which rejects "08"; go through float.
	f, err := r.Float(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("line %d field %q: %w: %v", r.Line, name, ErrNotInteger, f)
	}
	return int(f), nil
}

// Values returns a copy of the schema-mapped values.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Map returns the record as a field name to value map.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	if r.schema == nil {
		return m
	}
	for i, f := range r.schema.fields {
		m[f] = r.values[i]
	}
	return m
}

// Load reads comma-separated rows, discards the header row and maps every
// remaining row positionally onto fields.
func Load(r io.Reader, fields []string, opts *Options) ([]Record, error) {
	schema, err := NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	reader, err := newReader(r, opts)
	if err != nil {
		return nil, err
	}
	if _, err := readHeader(reader); err != nil {
		return nil, err
	}
	return readRows(reader, schema)
}

// LoadHeader reads comma-separated rows using the header row as the field list.
func LoadHeader(r io.Reader, opts *Options) ([]Record, error) {
	reader, err := newReader(r, opts)
	if err != nil {
		return nil, err
	}
	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.Trim(strings.TrimSpace(h), "\"")
	}
	schema, err := NewSchema(header...)
	if err != nil {
		return nil, err
	}
	return readRows(reader, schema)
}

// LoadFile loads records with a fixed field list from a file.
func LoadFile(filename string, fields []string, opts *Options) ([]Record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	recs, err := Load(file, fields, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return recs, nil
}

// LoadHeaderFile loads header-keyed records from a file.
func LoadHeaderFile(filename string, opts *Options) ([]Record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	recs, err := LoadHeader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return recs, nil
}

func newReader(r io.Reader, opts *Options) (*csv.Reader, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	reader := csv.NewReader(skipBOM(r))
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.Comment = opts.Comment
	reader.TrimLeadingSpace = opts.TrimLeadingSpace
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, ErrNoHeader
			}
			return nil, err
		}
	}
	return reader, nil
}

func readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	return header, nil
}

// skipBOM drops a leading UTF-8 byte order mark before the csv parser
// sees the first, possibly quoted, field.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		br.Discard(len(utf8BOM))
	}
	return br
}

const utf8BOM = "\ufeff"

func readRows(reader *csv.Reader, schema *Schema) ([]Record, error) {
	var out []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if len(row) < schema.Len() {
			return nil, fmt.Errorf("%w: line %d has %d of %d fields", ErrShortRow, line, len(row), schema.Len())
		}
		rec := Record{
			Line:   line,
			schema: schema,
			values: row[:schema.Len():schema.Len()],
		}
		if len(row) > schema.Len() {
			rec.Extra = row[schema.Len():]
		}
		out = append(out, rec)
	}
	return out, nil
}
