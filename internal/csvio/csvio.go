// Package csvio reads enrolment extracts into tables and writes normalised
// tables back out as CSV.
//
// Input bytes are decoded before parsing: a leading byte order mark is always
// honoured and stripped, and the remaining bytes are read in the configured
// encoding. Statistics Canada publishes UTF-8, but older extracts saved from
// spreadsheet tools arrive as Windows-1252.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/enrolment/internal/table"
)

// DefaultEncoding is used when Options.Encoding is empty.
const DefaultEncoding = "utf-8"

// Options controls how input is decoded.
type Options struct {
	// Encoding is a WHATWG encoding label such as "utf-8" or "windows-1252".
	Encoding string
}

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("empty file: no header row")

// LookupEncoding resolves an encoding label.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("encoding error: unsupported input encoding %q", name)
	}
	return enc, nil
}

// decoder returns a transformer that strips a byte order mark and decodes
// the rest of the stream with the named encoding. Invalid UTF-8 is replaced
// with U+FFFD rather than failing the read.
func decoder(name string) (transform.Transformer, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}

func newReader(r io.Reader, opts Options) (*csv.Reader, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr, nil
}

// Read parses a whole extract. The first non-blank record is the header.
// Empty cells become null values; every other cell is kept as a string.
func Read(r io.Reader, opts Options) (*table.Table, error) {
	cr, err := newReader(r, opts)
	if err != nil {
		return nil, err
	}

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	var rows [][]table.Value
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("invalid csv: line %d: record has %d fields, header has %d",
				line, len(rec), len(header))
		}

		row := make([]table.Value, len(rec))
		for i, cell := range rec {
			if cell == "" {
				row[i] = table.Null()
			} else {
				row[i] = table.Str(cell)
			}
		}
		rows = append(rows, row)
	}

	return table.New(header, rows...)
}

// ReadHeader parses only the header row.
func ReadHeader(r io.Reader, opts Options) ([]string, error) {
	cr, err := newReader(r, opts)
	if err != nil {
		return nil, err
	}
	return readHeader(cr)
}

func readHeader(cr *csv.Reader) ([]string, error) {
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil, ErrEmptyFile
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if isBlank(rec) {
			continue
		}

		line, _ := cr.FieldPos(0)
		header := make([]string, len(rec))
		seen := make(map[string]bool, len(rec))
		for i, h := range rec {
			h = CleanCell(h)
			if h == "" {
				return nil, fmt.Errorf("invalid csv: line %d: header column %d is empty", line, i+1)
			}
			if seen[h] {
				return nil, fmt.Errorf("invalid csv: line %d: duplicate header %q", line, h)
			}
			seen[h] = true
			header[i] = h
		}
		return header, nil
	}
}

// CleanCell removes common CSV artifacts from a header cell:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadFileHeader opens path and reads only its header.
func ReadFileHeader(path string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := ReadHeader(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return header, nil
}

// Write emits t as UTF-8 CSV: a header row, then one record per row using
// each value's text form. Nulls are written as empty cells.
func Write(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}

	rec := make([]string, t.Width())
	for r := 0; r < t.Len(); r++ {
		for i, v := range t.Row(r) {
			rec[i] = v.Text()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes t to path, replacing any existing file.
func WriteFile(path string, t *table.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, t)
}
