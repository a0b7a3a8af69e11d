package extract

import (
	"strings"
	"time"

	"github.com/ramzilbs/radiance/internal/model"
)

// Header keywords used to recognize labelled agenda tables. Matched as
// substrings of the lowercased header cell.
var (
	nameHeaders  = []string{"nom", "prénom", "prenom", "name", "client"}
	dateHeaders  = []string{"date", "séance", "seance", "rendez", "rdv"}
	phoneHeaders = []string{"tel", "tél", "phone", "portable", "mobile"}
)

// Extractor drives the cell parser and date normalizer over source tables,
// producing one RawRecord per client-visit occurrence. Cell-level failures
// are reported as warnings and absorbed.
type Extractor struct {
	dates *Normalizer
	obs   model.Observer
}

// New creates an extractor. obs must not be nil; use model.NopObserver to
// discard events.
func New(dates *Normalizer, obs model.Observer) *Extractor {
	return &Extractor{dates: dates, obs: obs}
}

// columnMap describes which columns hold what in one table.
type columnMap struct {
	name     int   // identity column
	phone    int   // -1 when absent
	dates    []int // visit date columns
	skipRow0 bool  // first row was a header
}

// ExtractTable extracts all records from one table of a document. Rows is
// the flattened cell text as produced by a table source.
func (e *Extractor) ExtractTable(doc string, table int, rows [][]string) []model.RawRecord {
	if len(rows) == 0 {
		return nil
	}

	cols := mapColumns(rows)

	var records []model.RawRecord
	start := 0
	if cols.skipRow0 {
		start = 1
	}

	for r := start; r < len(rows); r++ {
		row := rows[r]
		if cols.name >= len(row) {
			continue
		}

		ref := model.SourceRef{Document: doc, Table: table, Row: r}
		records = append(records, e.extractRow(ref, row, cols)...)
	}
	return records
}

// extractRow turns one table row into zero or more records: one per
// (client, visit date) pair, or a single dateless record when the row
// carries no parseable dates.
func (e *Extractor) extractRow(ref model.SourceRef, row []string, cols columnMap) []model.RawRecord {
	nameCell := row[cols.name]
	if strings.TrimSpace(nameCell) == "" {
		return nil
	}

	dates := e.rowDates(ref, row, cols)

	var phoneCol string
	if cols.phone >= 0 && cols.phone < len(row) {
		phoneCol = NormalizePhone(row[cols.phone])
	}

	var records []model.RawRecord
	for _, fragment := range SplitClients(nameCell) {
		id, ok := ParseCell(fragment)
		if !ok {
			e.obs.OnWarning(model.Warning{
				Kind:    model.WarnCell,
				Source:  ref.String(),
				Message: "cell yielded no name or phone: " + truncate(fragment, 60),
			})
			continue
		}
		if id.Phone == "" {
			id.Phone = phoneCol
		}

		if len(dates) == 0 {
			records = append(records, model.RawRecord{
				Name: id.Name, Phone: id.Phone, Source: ref,
			})
			continue
		}
		for _, d := range dates {
			visit := d
			records = append(records, model.RawRecord{
				Name: id.Name, Phone: id.Phone, VisitDate: &visit, Source: ref,
			})
		}
	}
	return records
}

// rowDates collects every parseable date from the row's date columns.
// Unparseable tokens are warned about and dropped.
func (e *Extractor) rowDates(ref model.SourceRef, row []string, cols columnMap) []time.Time {
	var dates []time.Time
	for _, c := range cols.dates {
		if c >= len(row) {
			continue
		}
		for _, token := range SplitTokens(row[c]) {
			d, ok := e.dates.Parse(token)
			if !ok {
				if looksDateLike(token) {
					e.obs.OnWarning(model.Warning{
						Kind:    model.WarnDate,
						Source:  ref.String(),
						Message: "unparseable date token: " + truncate(token, 40),
					})
				}
				continue
			}
			dates = append(dates, d)
		}
	}
	return dates
}

// mapColumns recognizes labelled tables by their header row and falls back
// to the positional layout (column 0 = identity, the rest = dates) when no
// name header is found.
func mapColumns(rows [][]string) columnMap {
	header := rows[0]
	name, phone, date := -1, -1, -1
	for i, cell := range header {
		h := strings.ToLower(strings.TrimSpace(cell))
		if h == "" {
			continue
		}
		if name < 0 && matchesAny(h, nameHeaders) {
			name = i
		}
		if date < 0 && matchesAny(h, dateHeaders) {
			date = i
		}
		if phone < 0 && matchesAny(h, phoneHeaders) {
			phone = i
		}
	}

	if name >= 0 {
		cols := columnMap{name: name, phone: phone, skipRow0: true}
		if date >= 0 {
			cols.dates = []int{date}
		}
		return cols
	}

	// Positional fallback: widest row decides how many date columns exist.
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	cols := columnMap{name: 0, phone: -1}
	for c := 1; c < width; c++ {
		cols.dates = append(cols.dates, c)
	}
	return cols
}

func matchesAny(h string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(h, k) {
			return true
		}
	}
	return false
}

// looksDateLike filters warning noise: only tokens that resemble a date
// attempt are worth reporting.
func looksDateLike(token string) bool {
	for _, r := range token {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
