package worker

import (
	"context"

	"github.com/ramzilbs/radiance/internal/model"
)

// Parser extracts the records of one document.
type Parser interface {
	ParseDocument(ctx context.Context, path string) ([]model.RawRecord, error)
}

// ParseJob parses one document. Index remembers the document's position in
// the scan order so results can be reassembled deterministically.
type ParseJob struct {
	Index  int
	Path   string
	Parser Parser
}

// ParseResult is the outcome of parsing one document.
type ParseResult struct {
	Index   int
	Path    string
	Records []model.RawRecord
	Err     error
}

func (r *ParseResult) GetError() error { return r.Err }

// Execute runs the job.
func (j *ParseJob) Execute(ctx context.Context) Result {
	records, err := j.Parser.ParseDocument(ctx, j.Path)
	return &ParseResult{
		Index:   j.Index,
		Path:    j.Path,
		Records: records,
		Err:     err,
	}
}

// ParseAll parses the given documents concurrently and returns one result
// per input path, in input order. Order matters: the downstream merge pass
// is order-dependent, so parallel parsing must not perturb the globally
// ordered record sequence.
func ParseAll(ctx context.Context, parser Parser, paths []string, workers int) []*ParseResult {
	if len(paths) == 0 {
		return nil
	}

	pool := NewPool(ctx, workers)
	pool.Start()

	// Drain results while submitting: with more documents than the channel
	// buffers hold, workers block on send until someone reads, and Submit
	// would stall behind them.
	ordered := make([]*ParseResult, len(paths))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range pool.Results() {
			pr := result.(*ParseResult)
			ordered[pr.Index] = pr
		}
	}()

	for i, path := range paths {
		pool.Submit(&ParseJob{Index: i, Path: path, Parser: parser})
	}
	pool.Close()
	<-done

	// Cancellation can leave holes; fill them so callers see a uniform
	// per-document outcome.
	for i, pr := range ordered {
		if pr == nil {
			ordered[i] = &ParseResult{Index: i, Path: paths[i], Err: ctx.Err()}
		}
	}
	return ordered
}
