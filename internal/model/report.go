package model

import "time"

// Stage names the pipeline phase a progress event belongs to.
type Stage string

const (
	StageScan    Stage = "scan"    // Discovering source documents
	StageExtract Stage = "extract" // Parsing cells into raw records
	StageDedup   Stage = "dedup"   // Merging duplicate identities
	StageFilter  Stage = "filter"  // Applying the loyalty cutoff
	StageExport  Stage = "export"  // Writing output files
)

// Progress is one structured progress event. The pipeline emits these to an
// Observer; they are notifications, never control inputs.
type Progress struct {
	Stage     Stage  `json:"stage"`
	Message   string `json:"message"`
	Processed int    `json:"processed,omitempty"`
	Total     int    `json:"total,omitempty"`
}

// Warning is a non-fatal problem: an unreadable document, a cell that
// yielded nothing, a date token that would not parse.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Source  string      `json:"source,omitempty"`
	Message string      `json:"message"`
}

// WarningKind classifies non-fatal problems for counting.
type WarningKind string

const (
	WarnDocument WarningKind = "document" // Whole document unreadable
	WarnCell     WarningKind = "cell"     // Cell yielded no usable identity
	WarnDate     WarningKind = "date"     // Date token unparseable
)

// Observer receives progress events and warnings during a run. Warnings
// originate on the parse workers, but the pipeline serializes delivery;
// implementations need no locking of their own.
type Observer interface {
	OnProgress(p Progress)
	OnWarning(w Warning)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnProgress(Progress) {}
func (NopObserver) OnWarning(Warning)   {}

// Report is the complete result of one extraction run.
type Report struct {
	InputDir    string    `json:"input_dir"`
	ProcessedAt time.Time `json:"processed_at"`

	Documents    int `json:"documents"`     // Documents successfully read
	DocumentsBad int `json:"documents_bad"` // Documents skipped with errors
	RawRecords   int `json:"raw_records"`   // Records extracted before merging

	Clients []*CanonicalClient `json:"clients"` // Loyal clients, export order

	Stats    Stats     `json:"stats"`
	Warnings []Warning `json:"warnings,omitempty"`

	Config MatchConfig `json:"config"` // Threshold and cutoff used

	SummaryMD string `json:"summary_md,omitempty"` // Optional LLM import notes
}

// Stats summarizes the run the way the original tool printed them.
type Stats struct {
	MergedClients     int         `json:"merged_clients"`     // Canonical clients before the loyalty cutoff
	LoyalClients      int         `json:"loyal_clients"`      // Clients passing the cutoff
	VisitDistribution map[int]int `json:"visit_distribution"` // visit count -> clients
	WithPhone         int         `json:"with_phone"`         // Loyal clients carrying a phone
	TotalVisits       int         `json:"total_visits"`       // Sum of visits across loyal clients
}

// BuildStats derives summary statistics from the merged and filtered sets.
func BuildStats(merged, loyal []*CanonicalClient) Stats {
	s := Stats{
		MergedClients:     len(merged),
		LoyalClients:      len(loyal),
		VisitDistribution: make(map[int]int),
	}
	for _, c := range loyal {
		s.VisitDistribution[c.VisitCount()]++
		s.TotalVisits += c.VisitCount()
		if c.Phone != "" {
			s.WithPhone++
		}
	}
	return s
}
