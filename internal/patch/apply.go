// Package patch applies SEARCH/REPLACE pairs to documents with tiered
// fuzzy matching.
package patch

import (
	"fmt"
	"strings"

	"github.com/stitchkit/stitch/internal/editblock"
)

// previewLimit bounds the search-text excerpt included in diagnostics.
const previewLimit = 80

// PairError describes one search/replace pair that could not be applied.
type PairError struct {
	Path    string // target document path
	Pair    int    // zero-based index within the block
	Preview string // flattened, truncated search text
	Empty   bool   // the search text was empty
}

func (e *PairError) Error() string {
	if e.Empty {
		return fmt.Sprintf("%s: pair %d: empty search text", e.Path, e.Pair+1)
	}
	return fmt.Sprintf("%s: pair %d: search text not found: %q", e.Path, e.Pair+1, e.Preview)
}

// Step records one successfully applied pair.
type Step struct {
	Pair     int
	Strategy Strategy
	Span     Span
}

// Outcome reports the result of applying a block's pairs to one document.
// Success is true only when every pair applied; otherwise Content is the
// original document, untouched.
type Outcome struct {
	Success bool
	Content string
	Steps   []Step
	Errors  []*PairError
}

// Apply applies pairs to doc in order. Each successful replacement updates
// the text later pairs search against, so dependent pairs keep working.
// Every pair is attempted even after a failure so all problems surface in
// one pass, but a block with any failed pair publishes nothing: Content
// reverts to the input document. path is used only in diagnostics.
func Apply(path, doc string, pairs []editblock.Pair) *Outcome {
	out := &Outcome{}
	work := doc
	for i, p := range pairs {
		if p.Search == "" {
			out.Errors = append(out.Errors, &PairError{Path: path, Pair: i, Empty: true})
			continue
		}
		m := Find(work, p.Search)
		if !m.Found {
			out.Errors = append(out.Errors, &PairError{Path: path, Pair: i, Preview: Preview(p.Search)})
			continue
		}
		work = work[:m.Span.Start] + p.Replace + work[m.Span.End:]
		out.Steps = append(out.Steps, Step{Pair: i, Strategy: m.Strategy, Span: m.Span})
	}
	if len(out.Errors) > 0 {
		out.Content = doc
		return out
	}
	out.Success = true
	out.Content = work
	return out
}

// Preview flattens s to a single line and truncates it for diagnostics.
func Preview(s string) string {
	flat := strings.Join(strings.Fields(s), " ")
	if len(flat) > previewLimit {
		flat = flat[:previewLimit-3] + "..."
	}
	return flat
}
