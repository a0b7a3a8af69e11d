package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramzilbs/radiance/internal/model"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Workers.ParseWorkers = 2
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeAgendaCSV(t *testing.T, dir string) {
	t.Helper()
	content := "Nom;Téléphone;Dates\n" +
		"Dupont Marie;0612345678;12/03/2024, 14/03/2024\n" +
		"Dupond Marie;0612345678;16/03/2024\n" +
		"Bernard Sophie;;12/03/2024\n"
	if err := os.WriteFile(filepath.Join(dir, "mars.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeAgendaCSV(t, dir)

	p := New(testConfig(t), model.NopObserver{})
	report, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if report.Documents != 1 || report.DocumentsBad != 0 {
		t.Errorf("documents = %d read, %d bad", report.Documents, report.DocumentsBad)
	}
	if report.RawRecords != 4 {
		t.Errorf("raw records = %d, want 4", report.RawRecords)
	}
	if report.Stats.MergedClients != 2 {
		t.Errorf("merged clients = %d, want 2", report.Stats.MergedClients)
	}

	// Only the merged Dupont/Dupond identity reaches the cutoff.
	if len(report.Clients) != 1 {
		t.Fatalf("loyal clients = %d, want 1", len(report.Clients))
	}
	c := report.Clients[0]
	if c.Name != "Dupont Marie" || c.Phone != "0612345678" {
		t.Errorf("client = %q / %q", c.Name, c.Phone)
	}
	if c.VisitCount() != 3 {
		t.Errorf("visits = %d, want 3", c.VisitCount())
	}
	if report.Stats.WithPhone != 1 {
		t.Errorf("with phone = %d, want 1", report.Stats.WithPhone)
	}
}

func TestRun_BadDocumentIsWarning(t *testing.T) {
	dir := t.TempDir()
	writeAgendaCSV(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "broken.docx"), []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(testConfig(t), model.NopObserver{})
	report, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if report.Documents != 1 || report.DocumentsBad != 1 {
		t.Errorf("documents = %d read, %d bad, want 1 and 1", report.Documents, report.DocumentsBad)
	}

	var docWarnings int
	for _, w := range report.Warnings {
		if w.Kind == model.WarnDocument {
			docWarnings++
		}
	}
	if docWarnings != 1 {
		t.Errorf("document warnings = %d, want 1", docWarnings)
	}
	if len(report.Clients) != 1 {
		t.Errorf("loyal clients = %d, the bad document must not poison the run", len(report.Clients))
	}
}

func TestRun_WarningsFromParallelWorkers(t *testing.T) {
	// Every document produces one date warning; with several workers the
	// warnings arrive concurrently and must all reach the report.
	dir := t.TempDir()
	for i := 0; i < 16; i++ {
		content := "Nom;Dates\nDupont Marie;99/99/2024\n"
		name := fmt.Sprintf("agenda-%02d.csv", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := testConfig(t)
	cfg.Workers.ParseWorkers = 4

	report, err := New(cfg, model.NopObserver{}).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	var dateWarnings int
	for _, w := range report.Warnings {
		if w.Kind == model.WarnDate {
			dateWarnings++
		}
	}
	if dateWarnings != 16 {
		t.Errorf("date warnings = %d, want 16", dateWarnings)
	}
}

func TestRun_MissingInputDir(t *testing.T) {
	p := New(testConfig(t), model.NopObserver{})
	if _, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing input directory")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeAgendaCSV(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(testConfig(t), model.NopObserver{})
	if _, err := p.Run(ctx, dir); err == nil {
		t.Error("expected error after cancellation")
	}
}

func TestRun_CachedSecondRun(t *testing.T) {
	dir := t.TempDir()
	writeAgendaCSV(t, dir)

	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	first, err := New(cfg, model.NopObserver{}).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(cfg, model.NopObserver{}).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if second.RawRecords != first.RawRecords {
		t.Errorf("cached run records = %d, want %d", second.RawRecords, first.RawRecords)
	}
	if len(second.Clients) != len(first.Clients) {
		t.Errorf("cached run clients = %d, want %d", len(second.Clients), len(first.Clients))
	}
	if second.Clients[0].VisitCount() != first.Clients[0].VisitCount() {
		t.Errorf("cached run visits = %d, want %d",
			second.Clients[0].VisitCount(), first.Clients[0].VisitCount())
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	writeAgendaCSV(t, dir)

	p := New(testConfig(t), model.NopObserver{})
	report, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	out := Outputs{
		CSV:  filepath.Join(dir, "clients.csv"),
		Odoo: filepath.Join(dir, "odoo.csv"),
		JSON: filepath.Join(dir, "report.json"),
	}
	if err := NewRenderer(false).Render(report, out); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{out.CSV, out.Odoo, out.JSON} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output %s: %v", path, err)
		}
	}

	data, err := os.ReadFile(out.JSON)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report.json does not parse: %v", err)
	}
	if decoded.RawRecords != report.RawRecords {
		t.Errorf("decoded raw records = %d, want %d", decoded.RawRecords, report.RawRecords)
	}
}

func TestRenderSummary(t *testing.T) {
	dir := t.TempDir()
	writeAgendaCSV(t, dir)

	p := New(testConfig(t), model.NopObserver{})
	report, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	NewRenderer(false).RenderSummary(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"Documents:     1 read, 0 skipped",
		"Raw records:   4",
		"After merge:   2 client(s)",
		"Dupont Marie",
		"3 séance(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
