// Package csvimport reads tabular uploads and checks them column by column
// before anything is written.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrTooManyRows     = errors.New("CSV file has too many rows")
)

const encodingProbeSize = 4096

// Reader yields header-keyed rows. Header names are matched case-insensitively.
type Reader struct {
	csv     *csv.Reader
	headers []string
	index   map[string]int
	line    int
	maxRows int
	rows    int
}

type ReaderOption func(*Reader)

// WithDelimiter switches the field separator (comma by default)
func WithDelimiter(d rune) ReaderOption {
	return func(r *Reader) { r.csv.Comma = d }
}

// WithMaxRows caps the number of data rows; zero means unlimited
func WithMaxRows(n int) ReaderOption {
	return func(r *Reader) { r.maxRows = n }
}

// NewReader strips a UTF-8 BOM, checks the encoding of the first block and
// consumes the header row. Next checks every later record.
func NewReader(src io.Reader, opts ...ReaderOption) (*Reader, error) {
	buf := bufio.NewReaderSize(src, encodingProbeSize)
	if bom, _ := buf.Peek(3); len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}
	probe, err := buf.Peek(encodingProbeSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(strings.TrimSpace(string(probe))) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(probe)) {
		return nil, ErrInvalidEncoding
	}

	r := &Reader{csv: csv.NewReader(buf), index: make(map[string]int)}
	r.csv.LazyQuotes = true
	r.csv.TrimLeadingSpace = true
	r.csv.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(r)
	}

	header, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	r.line = 1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		r.headers = append(r.headers, name)
		if name != "" {
			r.index[name] = i
		}
	}
	if len(r.index) == 0 {
		return nil, ErrMissingHeader
	}
	return r, nil
}

// trimPartialRune drops a rune cut in half by the probe boundary
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
			break
		}
		b = b[:len(b)-1]
	}
	return b
}

func (r *Reader) Headers() []string { return r.headers }

// Missing lists the required headers the file lacks
func (r *Reader) Missing(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := r.index[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line. Line counts the header as line 1.
type Row struct {
	Line   int
	values map[string]string
}

func (row *Row) Get(column string) string { return row.values[column] }

func (row *Row) empty() bool {
	for _, v := range row.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next non-blank row, or io.EOF
func (r *Reader) Next() (*Row, error) {
	for {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		r.line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		// NewReader only checked the first block
		for _, field := range record {
			if !utf8.ValidString(field) {
				return nil, fmt.Errorf("line %d: %w", r.line, ErrInvalidEncoding)
			}
		}

		row := &Row{Line: r.line, values: make(map[string]string, len(r.index))}
		for name, i := range r.index {
			if i < len(record) {
				row.values[name] = strings.TrimSpace(record[i])
			}
		}
		if row.empty() {
			continue
		}
		r.rows++
		if r.maxRows > 0 && r.rows > r.maxRows {
			return nil, ErrTooManyRows
		}
		return row, nil
	}
}

// ReadAll drains the reader
func (r *Reader) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
