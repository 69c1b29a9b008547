package core

// csvread.go turns delimiter-separated source files into SourceRows.
//
// Source exports are messy in predictable ways, so reading handles:
//   - a UTF-8 BOM written by spreadsheet tools
//   - invalid UTF-8 bytes, replaced with '?'
//   - title or note rows above the header (header search)
//   - blank rows and ragged rows

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultMaxHeaderSearchRows is how many leading rows are scanned for the header.
const DefaultMaxHeaderSearchRows = 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls how source files are parsed.
type CSVOptions struct {
	Delimiter           rune // Field separator (default ',')
	MaxHeaderSearchRows int  // Rows scanned for the header (default 20)
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.MaxHeaderSearchRows <= 0 {
		o.MaxHeaderSearchRows = DefaultMaxHeaderSearchRows
	}
	return o
}

// sanitizingReader strips a leading BOM and replaces invalid UTF-8 bytes
// with '?' so downstream parsing never sees broken runes.
type sanitizingReader struct {
	br      *bufio.Reader
	pending []byte
}

// NewSanitizingReader wraps r with BOM skipping and UTF-8 sanitization.
func NewSanitizingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &sanitizingReader{br: br, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *sanitizingReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			r, size, err := s.br.ReadRune()
			if err != nil {
				if n > 0 {
					return n, nil
				}
				return 0, err
			}
			if r == utf8.RuneError && size == 1 {
				s.pending = append(s.pending[:0], '?')
			} else {
				s.pending = utf8.AppendRune(s.pending[:0], r)
			}
		}
		c := copy(p[n:], s.pending)
		n += c
		s.pending = s.pending[c:]
	}
	return n, nil
}

// ReadCSV parses a source file for the given table. The header is the first
// row, within the search window, that passes ValidateHeaders.
// Blank rows are skipped. Cells beyond a short row are absent (missing).
func ReadCSV(r io.Reader, def TableDefinition, opts CSVOptions) ([]SourceRow, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(NewSanitizingReader(r))
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	var header, first []string
	for i := 0; i < opts.MaxHeaderSearchRows; i++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			if i == 0 {
				return nil, errors.New("empty file")
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if isEmptyRow(row) {
			continue
		}
		if first == nil {
			first = row
		}
		if _, err := ValidateHeaders(row, def.FieldSpecs); err == nil {
			header = row
			break
		}
	}
	if header == nil {
		if first == nil {
			return nil, errors.New("header not found: no non-empty rows")
		}
		// Report against the first candidate row, usually the real header.
		_, err := ValidateHeaders(first, def.FieldSpecs)
		return nil, fmt.Errorf("header not found: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(CleanCell(h))
	}

	var rows []SourceRow
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("invalid csv: %w", err)
		}
		if isEmptyRow(row) {
			continue
		}

		line, _ := cr.FieldPos(0)
		raw := make(RawRecord, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(row) {
				continue
			}
			raw[col] = row[i]
		}
		rows = append(rows, SourceRow{LineNumber: line, Raw: raw, Data: row})
	}

	return rows, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string, def TableDefinition, opts CSVOptions) ([]SourceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadCSV(f, def, opts)
	if err != nil {
		return rows, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
