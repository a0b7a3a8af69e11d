package export

import (
	"fmt"

	"github.com/ramzilbs/radiance/internal/model"
	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Clients fidèles"

// WriteXLSX writes the roster as an Excel workbook, standard layout with a
// bold header row. Clients must already be in export order.
func WriteXLSX(clients []*model.CanonicalClient, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(rosterSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	for col, name := range standardHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(rosterSheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(standardHeader), 1)
		_ = f.SetCellStyle(rosterSheet, "A1", endCell, style)
	}

	for i, c := range clients {
		for col, value := range standardRow(c) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellStr(rosterSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
