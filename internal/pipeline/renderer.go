package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ramzilbs/radiance/internal/export"
	"github.com/ramzilbs/radiance/internal/model"
)

// Outputs names the export targets of a run. Empty paths are skipped.
type Outputs struct {
	CSV  string // standard review layout
	Odoo string // Odoo Contacts import layout
	XLSX string // Excel workbook, standard layout
	JSON string // full run report
}

// Renderer writes the run report to its output targets.
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// Render writes every requested target. A failing target is reported and
// the rest are still attempted: the in-memory roster is independent of any
// single export, so a retry of export alone stays possible.
func (r *Renderer) Render(report *model.Report, out Outputs) error {
	var errs []error

	targets := []struct {
		path  string
		label string
		write func(string) error
	}{
		{out.CSV, "CSV", func(p string) error { return export.WriteStandardCSV(report.Clients, p) }},
		{out.Odoo, "Odoo CSV", func(p string) error { return export.WriteOdooCSV(report.Clients, p) }},
		{out.XLSX, "XLSX", func(p string) error { return export.WriteXLSX(report.Clients, p) }},
		{out.JSON, "JSON", func(p string) error { return r.renderJSON(report, p) }},
	}

	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if err := t.write(t.path); err != nil {
			errs = append(errs, fmt.Errorf("%s export: %w", t.label, err))
			fmt.Fprintf(os.Stderr, "✗ %s export failed: %v\n", t.label, err)
			continue
		}
		if r.verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s: %s\n", t.label, t.path)
		}
	}

	return errors.Join(errs...)
}

// renderJSON writes the full run report.
func (r *Renderer) renderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints the run statistics, the way the original tool
// reported them.
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	s := report.Stats

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Radiance: clients fidèles\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Documents:     %d read, %d skipped\n", report.Documents, report.DocumentsBad)
	fmt.Fprintf(w, "  Raw records:   %d\n", report.RawRecords)
	fmt.Fprintf(w, "  After merge:   %d client(s)\n", s.MergedClients)
	fmt.Fprintf(w, "  Loyal (≥%d):    %d client(s)\n", report.Config.MinVisits, s.LoyalClients)
	if s.LoyalClients > 0 {
		fmt.Fprintf(w, "  With phone:    %d/%d\n", s.WithPhone, s.LoyalClients)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "  Warnings:      %d\n", len(report.Warnings))
	}

	if len(s.VisitDistribution) > 0 {
		fmt.Fprintf(w, "\n  Visits distribution:\n")
		counts := make([]int, 0, len(s.VisitDistribution))
		for n := range s.VisitDistribution {
			counts = append(counts, n)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(counts)))
		for _, n := range counts {
			fmt.Fprintf(w, "    %d séance(s): %d client(s)\n", n, s.VisitDistribution[n])
		}
	}

	if len(report.Clients) > 0 {
		fmt.Fprintf(w, "\n  Top clients:\n")
		for i, c := range report.Clients {
			if i >= 5 {
				break
			}
			fmt.Fprintf(w, "    %d. %s: %d séance(s)\n", i+1, c.Name, c.VisitCount())
		}
	}

	if report.SummaryMD != "" {
		fmt.Fprintf(w, "\n  Import notes:\n")
		fmt.Fprintf(w, "%s\n", indent(report.SummaryMD, "    "))
	}

	fmt.Fprintf(w, "\n")
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
