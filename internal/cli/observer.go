package cli

import (
	"fmt"
	"os"

	"github.com/ramzilbs/radiance/internal/model"
)

// stderrObserver prints progress to stderr. Stage transitions always show;
// per-document detail and cell-level warnings only in verbose mode.
type stderrObserver struct {
	verbose bool
}

func (o *stderrObserver) OnProgress(p model.Progress) {
	switch p.Stage {
	case model.StageExtract:
		if o.verbose {
			fmt.Fprintf(os.Stderr, "⚙️  [%d/%d] %s\n", p.Processed, p.Total, p.Message)
		}
	default:
		fmt.Fprintf(os.Stderr, "✓ %s: %s\n", p.Stage, p.Message)
	}
}

func (o *stderrObserver) OnWarning(w model.Warning) {
	// Document-level problems are always worth seeing; cell and date noise
	// only when asked for.
	if w.Kind == model.WarnDocument || o.verbose {
		if w.Source != "" {
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", w.Source, w.Message)
			return
		}
		fmt.Fprintf(os.Stderr, "✗ %s\n", w.Message)
	}
}
