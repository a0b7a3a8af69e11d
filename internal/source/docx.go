package source

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DocxReader reads tables out of Word documents. A .docx file is a zip
// archive; the tables live as w:tbl elements in word/document.xml. The
// reader walks the XML token stream directly instead of binding the full
// WordprocessingML schema.
type DocxReader struct{}

// NewDocxReader creates a DOCX reader.
func NewDocxReader() *DocxReader {
	return &DocxReader{}
}

func (r *DocxReader) Name() string { return "docx" }

func (r *DocxReader) CanHandle(path string) bool {
	return hasExt(path, ".docx")
}

// Read extracts every top-level table of the document. Paragraph and line
// breaks inside a cell become newlines, so multi-client cells keep their
// separators.
func (r *DocxReader) Read(path string) (*Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer func() { _ = archive.Close() }()

	var body io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("open document.xml: %w", err)
			}
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("no word/document.xml in %s", path)
	}
	defer func() { _ = body.Close() }()

	tables, err := parseDocxTables(body)
	if err != nil {
		return nil, fmt.Errorf("parse document.xml: %w", err)
	}

	return &Document{
		Name:   filepath.Base(path),
		Tables: tables,
	}, nil
}

// parseDocxTables walks the WordprocessingML token stream collecting cell
// text. Nested tables are flattened into the enclosing cell's text, which
// is the useful behavior for agendas.
func parseDocxTables(r io.Reader) ([]Table, error) {
	dec := xml.NewDecoder(r)

	var (
		tables   []Table
		rows     [][]string
		row      []string
		cell     strings.Builder
		tblDepth int
		inCell   bool
	)

	flushCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "tr":
				if tblDepth == 1 {
					row = nil
				}
			case "tc":
				if tblDepth == 1 {
					inCell = true
					cell.Reset()
				}
			case "br", "cr":
				if inCell {
					cell.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tblDepth == 1 {
					if len(rows) > 0 {
						tables = append(tables, Table{Rows: rows})
					}
					rows = nil
				}
				tblDepth--
			case "tr":
				if tblDepth == 1 && row != nil {
					rows = append(rows, row)
					row = nil
				}
			case "tc":
				if tblDepth == 1 && inCell {
					flushCell()
					inCell = false
				}
			case "p":
				// Paragraph boundary inside a cell separates entries.
				if inCell && cell.Len() > 0 {
					cell.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inCell {
				cell.Write(t)
			}
		}
	}

	return tables, nil
}
