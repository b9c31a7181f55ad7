// Package snidfile reads the rlap-ordered template listing from SNID
// "snid.output" files.
//
// The listing follows a marker line and consists of one header line,
// whose leading '#' is stripped, and whitespace-separated rows:
//
//	### rlap-ordered template listings ###
//	#no. sn          type     lap   rlap    z      zerr   age    age_flag grade
//	  1  sn1994D     Ia-norm  0.81  12.45   0.0215 0.0034 10.0   1        good
package snidfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ahrav/typereader/internal/domain"
	"github.com/ahrav/typereader/internal/ports"
)

// Marker introduces the listing. When it occurs more than once, the last
// occurrence wins.
const Marker = "### rlap-ordered template listings ###"

var _ ports.MatchSource = (*Source)(nil)

var (
	// ErrMarkerNotFound is returned when the input has no listing marker.
	ErrMarkerNotFound = errors.New("rlap-ordered listing marker not found")

	// ErrMissingHeader is returned when nothing follows the marker.
	ErrMissingHeader = errors.New("listing header not found")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")
)

// RequiredColumns must appear in every listing header.
var RequiredColumns = []string{domain.FieldType, domain.FieldRLap}

// ParseError reports a malformed listing row.
type ParseError struct {
	// Line is the 1-based line number in the input.
	Line int

	// Column is the offending column, if known.
	Column string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("parse error: line=%d, err=%v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: line=%d, column=%s, err=%v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// Row is one listing line split under the header columns. Columns missing
// at the end of a short row are absent from Fields.
type Row struct {
	Line   int
	Fields map[string]string
}

// Table is the tabulated listing, rows in file order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Parse reads a snid.output document and tabulates its listing.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return parse(data)
}

// LoadFile parses the listing at path.
func LoadFile(path string) (*Table, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, ports.NewSourceError(cleanPath, err)
	}
	t, err := parse(data)
	if err != nil {
		return nil, ports.NewSourceError(cleanPath, err)
	}
	return t, nil
}

func parse(data []byte) (*Table, error) {
	idx := bytes.LastIndex(data, []byte(Marker))
	if idx < 0 {
		return nil, ErrMarkerNotFound
	}
	// Lines before the listing still count for error positions.
	lineNo := bytes.Count(data[:idx], []byte("\n"))

	sc := bufio.NewScanner(bytes.NewReader(data[idx+len(Marker):]))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var t *Table
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if t == nil {
			if line == "" {
				continue
			}
			t = &Table{Columns: strings.Fields(strings.TrimPrefix(line, "#"))}
			if err := checkColumns(t.Columns); err != nil {
				return nil, &ParseError{Line: lineNo, Err: err}
			}
			continue
		}

		if skip(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > len(t.Columns) {
			return nil, &ParseError{
				Line: lineNo,
				Err:  fmt.Errorf("%d fields for %d columns", len(fields), len(t.Columns)),
			}
		}
		row := Row{Line: lineNo, Fields: make(map[string]string, len(fields))}
		for i, f := range fields {
			row.Fields[t.Columns[i]] = f
		}
		t.Rows = append(t.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	if t == nil {
		return nil, ErrMissingHeader
	}
	return t, nil
}

// skip reports whether a listing line carries no match: blank lines,
// comments and the "--- rlap cutoff" separators.
func skip(line string) bool {
	return line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "---")
}

func checkColumns(columns []string) error {
	for _, c := range RequiredColumns {
		if !slices.Contains(columns, c) {
			return fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}
	return nil
}

// Records converts the table to match records. Every row must carry a type
// and a numeric rlap; other columns become numeric fields when they parse
// as floats and text columns otherwise.
func (t *Table) Records() ([]domain.MatchRecord, error) {
	records := make([]domain.MatchRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		typ, ok := row.Fields[domain.FieldType]
		if !ok {
			return nil, &ParseError{Line: row.Line, Column: domain.FieldType, Err: ErrMissingColumn}
		}

		values := make(map[string]float64, len(row.Fields))
		text := make(map[string]string)
		for col, raw := range row.Fields {
			if col == domain.FieldType {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				if col == domain.FieldRLap {
					return nil, &ParseError{Line: row.Line, Column: col, Err: err}
				}
				text[col] = raw
				continue
			}
			values[col] = v
		}
		if _, ok := values[domain.FieldRLap]; !ok {
			return nil, &ParseError{Line: row.Line, Column: domain.FieldRLap, Err: ErrMissingColumn}
		}
		records = append(records, domain.NewMatchRecord(typ, values, text))
	}
	return records, nil
}

// Source implements ports.MatchSource for snid.output files.
type Source struct{}

// NewSource returns a snid.output match source.
func NewSource() *Source { return &Source{} }

// Load implements ports.MatchSource.
func (s *Source) Load(ctx context.Context, path string) ([]domain.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := t.Records()
	if err != nil {
		return nil, ports.NewSourceError(path, err)
	}
	return records, nil
}
