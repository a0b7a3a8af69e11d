package source

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XlsxReader reads Excel workbooks. Each sheet becomes one table.
type XlsxReader struct{}

// NewXlsxReader creates an XLSX reader.
func NewXlsxReader() *XlsxReader {
	return &XlsxReader{}
}

func (r *XlsxReader) Name() string { return "xlsx" }

func (r *XlsxReader) CanHandle(path string) bool {
	return hasExt(path, ".xlsx")
}

func (r *XlsxReader) Read(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc := &Document{Name: filepath.Base(path)}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			// A broken sheet should not sink the workbook.
			continue
		}
		if len(rows) == 0 {
			continue
		}
		doc.Tables = append(doc.Tables, Table{Rows: rows})
	}

	if len(doc.Tables) == 0 {
		return nil, fmt.Errorf("no populated sheets in %s", path)
	}
	return doc, nil
}
