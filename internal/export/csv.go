package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ramzilbs/radiance/internal/model"
)

// utf8BOM makes Excel open the files with the right encoding; the roster is
// full of accented names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteStandardCSV writes the review layout: name, phone, visit count,
// last visit. Clients must already be in export order.
func WriteStandardCSV(clients []*model.CanonicalClient, path string) error {
	return writeCSV(path, standardHeader, clients, standardRow)
}

// WriteOdooCSV writes the Odoo Contacts import layout.
func WriteOdooCSV(clients []*model.CanonicalClient, path string) error {
	return writeCSV(path, odooHeader, clients, odooRow)
}

func writeCSV(path string, header []string, clients []*model.CanonicalClient, row func(*model.CanonicalClient) []string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range clients {
		if err := w.Write(row(c)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
