// Package pipeline orchestrates the complete extraction run: scan sources,
// extract raw records, merge duplicates, filter by loyalty, render outputs.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ramzilbs/radiance/internal/cache"
	"github.com/ramzilbs/radiance/internal/dedup"
	"github.com/ramzilbs/radiance/internal/export"
	"github.com/ramzilbs/radiance/internal/extract"
	"github.com/ramzilbs/radiance/internal/llm"
	"github.com/ramzilbs/radiance/internal/model"
	"github.com/ramzilbs/radiance/internal/source"
	"github.com/ramzilbs/radiance/internal/worker"
)

// Pipeline wires the components of one extraction run.
type Pipeline struct {
	cfg        *model.Config
	registry   *source.Registry
	extractor  *extract.Extractor
	store      *cache.RecordStore // nil when caching is disabled
	summarizer *llm.Summarizer    // nil when LLM is disabled
	obs        *collectingObserver
}

// New creates a pipeline. The configuration must already be validated.
// obs receives progress events and warnings; pass model.NopObserver to
// discard them.
func New(cfg *model.Config, obs model.Observer) *Pipeline {
	collector := &collectingObserver{next: obs}
	now := time.Now()

	// The store must share the normalizer's date policy: cached records
	// carry already-resolved dates.
	var store *cache.RecordStore
	if cfg.Cache.Enabled {
		store = cache.NewRecordStore(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Dates, now)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(cfg.LLM)
		if err != nil {
			collector.OnWarning(model.Warning{
				Kind:    model.WarnDocument,
				Message: fmt.Sprintf("LLM provider unavailable: %v", err),
			})
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		cfg:        cfg,
		registry:   source.NewRegistry(),
		extractor:  extract.New(extract.NewNormalizer(cfg.Dates, now), collector),
		store:      store,
		summarizer: summarizer,
		obs:        collector,
	}
}

// Run executes the full pipeline over the documents in inputDir and returns
// the run report. Per-document failures are warnings; only an unusable
// input directory or cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, inputDir string) (*model.Report, error) {
	report := &model.Report{
		InputDir:    inputDir,
		ProcessedAt: time.Now().UTC(),
		Config:      p.cfg.Match,
	}

	// 1. Discover documents.
	paths, err := p.registry.Scan(inputDir)
	if err != nil {
		return nil, err
	}
	p.obs.OnProgress(model.Progress{
		Stage:   model.StageScan,
		Message: fmt.Sprintf("%d document(s) found", len(paths)),
		Total:   len(paths),
	})

	// 2. Parse documents concurrently; reassemble in scan order so the
	// record sequence feeding the merge pass stays deterministic.
	results := worker.ParseAll(ctx, p, paths, p.cfg.Workers.ParseWorkers)

	var records []model.RawRecord
	for _, res := range results {
		if res.Err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			report.DocumentsBad++
			p.obs.OnWarning(model.Warning{
				Kind:    model.WarnDocument,
				Source:  res.Path,
				Message: res.Err.Error(),
			})
			continue
		}
		report.Documents++
		records = append(records, res.Records...)
		p.obs.OnProgress(model.Progress{
			Stage:     model.StageExtract,
			Message:   fmt.Sprintf("%s: %d record(s)", res.Path, len(res.Records)),
			Processed: report.Documents,
			Total:     len(paths),
		})
	}
	report.RawRecords = len(records)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Merge duplicate identities.
	merged := dedup.Cluster(records, p.cfg.Match.Threshold)
	p.obs.OnProgress(model.Progress{
		Stage:     model.StageDedup,
		Message:   fmt.Sprintf("%d record(s) merged into %d client(s)", len(records), len(merged)),
		Processed: len(merged),
	})

	// 4. Keep the loyal ones.
	loyal := dedup.FilterLoyal(merged, p.cfg.Match.MinVisits)
	p.obs.OnProgress(model.Progress{
		Stage:     model.StageFilter,
		Message:   fmt.Sprintf("%d loyal client(s) (≥%d visits)", len(loyal), p.cfg.Match.MinVisits),
		Processed: len(loyal),
	})

	report.Clients = export.SortRoster(loyal)
	report.Stats = model.BuildStats(merged, loyal)

	// 5. Optional LLM import notes. Never affects the roster; a failure is
	// just a warning.
	if p.summarizer != nil {
		report.Warnings = p.obs.snapshot()
		summary, err := p.summarizer.Summarize(ctx, report)
		if err != nil {
			p.obs.OnWarning(model.Warning{
				Kind:    model.WarnDocument,
				Message: fmt.Sprintf("LLM summary failed: %v", err),
			})
		} else {
			report.SummaryMD = summary
		}
	}
	report.Warnings = p.obs.snapshot()

	return report, nil
}

// ParseDocument extracts the records of one document, consulting the cache
// first. Implements worker.Parser.
func (p *Pipeline) ParseDocument(ctx context.Context, path string) ([]model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.store != nil {
		if records, ok := p.store.Lookup(path); ok {
			return records, nil
		}
	}

	reader := p.registry.FindReader(path)
	if reader == nil {
		return nil, fmt.Errorf("unsupported document format: %s", path)
	}

	doc, err := reader.Read(path)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	for i, table := range doc.Tables {
		records = append(records, p.extractor.ExtractTable(doc.Name, i, table.Rows)...)
	}

	if p.store != nil {
		if err := p.store.Store(path, records); err != nil {
			p.obs.OnWarning(model.Warning{
				Kind:    model.WarnDocument,
				Source:  path,
				Message: fmt.Sprintf("cache write failed: %v", err),
			})
		}
	}
	return records, nil
}

// collectingObserver tees warnings into the run report while forwarding
// everything to the caller's observer. Warnings arrive concurrently from
// the parse workers; the mutex also serializes delivery to next, so caller
// observers need no locking of their own.
type collectingObserver struct {
	next     model.Observer
	mu       sync.Mutex
	warnings []model.Warning
}

func (c *collectingObserver) OnProgress(p model.Progress) {
	c.next.OnProgress(p)
}

func (c *collectingObserver) OnWarning(w model.Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, w)
	c.next.OnWarning(w)
}

func (c *collectingObserver) snapshot() []model.Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Warning(nil), c.warnings...)
}
