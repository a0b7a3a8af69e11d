package model

import (
	"fmt"
	"time"
)

// DateLayout is the display format for visit dates (French convention).
const DateLayout = "02/01/2006"

// SourceRef identifies where a record was observed, for traceability.
type SourceRef struct {
	Document string `json:"document"` // File name of the source document
	Table    int    `json:"table"`    // Table index within the document (0-based)
	Row      int    `json:"row"`      // Row index within the table (0-based)
}

func (r SourceRef) String() string {
	return fmt.Sprintf("%s#t%d:r%d", r.Document, r.Table, r.Row)
}

// RawRecord is one observed client occurrence before deduplication.
// Immutable after extraction.
type RawRecord struct {
	Name      string     `json:"name"`                 // Display name, possibly empty
	Phone     string     `json:"phone"`                // Digits only, possibly empty
	VisitDate *time.Time `json:"visit_date,omitempty"` // Absent when no date parsed
	Source    SourceRef  `json:"source"`
}

// HasIdentity reports whether the record carries anything worth clustering.
// Records with neither name nor phone are dropped before deduplication.
func (r RawRecord) HasIdentity() bool {
	return r.Name != "" || r.Phone != ""
}

// CanonicalClient is a merged client identity aggregating one or more
// RawRecords. Name and phone are representative values: first-seen non-empty
// wins, later records backfill only what is still empty.
type CanonicalClient struct {
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	VisitDates []time.Time `json:"visit_dates"` // Insertion order, duplicates kept
	Sources    []SourceRef `json:"sources"`     // One per merged record
}

// VisitCount returns the number of recorded visits. Duplicate dates count:
// two sessions on the same day are two sessions.
func (c *CanonicalClient) VisitCount() int {
	return len(c.VisitDates)
}

// LastVisit returns the most recent visit date, or zero time when the client
// has no recorded visits.
func (c *CanonicalClient) LastVisit() time.Time {
	var last time.Time
	for _, d := range c.VisitDates {
		if d.After(last) {
			last = d
		}
	}
	return last
}
