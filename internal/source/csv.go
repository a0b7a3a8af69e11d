package source

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVReader reads comma- or semicolon-separated files as a single table.
// French spreadsheet exports commonly use semicolons; the delimiter is
// sniffed from the first line.
type CSVReader struct{}

// NewCSVReader creates a CSV reader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (r *CSVReader) Name() string { return "csv" }

func (r *CSVReader) CanHandle(path string) bool {
	return hasExt(path, ".csv")
}

func (r *CSVReader) Read(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReader(f)

	// Strip a UTF-8 BOM if present; Excel writes one.
	if peek, _ := br.Peek(3); len(peek) == 3 && peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	firstLine, _ := br.Peek(4096)
	delim := sniffDelimiter(string(firstLine))

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv: %s", path)
	}

	return &Document{
		Name:   filepath.Base(path),
		Tables: []Table{{Rows: rows}},
	}, nil
}

func sniffDelimiter(line string) rune {
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
