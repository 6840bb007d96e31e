// Package runner drives the apply pipeline: parse edit blocks, match and
// patch documents, write results, and record a run report.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stitchkit/stitch/internal/config"
	"github.com/stitchkit/stitch/internal/editblock"
	"github.com/stitchkit/stitch/internal/patch"
	"github.com/stitchkit/stitch/internal/source"
	"github.com/stitchkit/stitch/internal/state"
	"github.com/stitchkit/stitch/internal/store"
	"github.com/stitchkit/stitch/internal/ux"
)

// Runner applies parsed edit blocks to files under the configured root.
type Runner struct {
	Config *config.Config
	Dir    string // .stitch dir for run history; empty disables reports
	DryRun bool
	Quiet  bool // suppress terminal output (serve mode owns stdout)
}

// Run parses text and applies every completed block in order. Incomplete
// blocks are reported as pending, never applied. Block failures are data in
// the report; the returned error is reserved for cancellation.
func (r *Runner) Run(ctx context.Context, text, origin string) (*state.Report, error) {
	report := state.NewReport(origin, r.DryRun)
	if !r.Quiet {
		ux.RunHeader(origin, r.DryRun)
	}

	for _, b := range editblock.Parse(text) {
		if ctx.Err() != nil {
			return r.finish(report), ctx.Err()
		}
		if !b.Complete {
			report.Pending = append(report.Pending, b.Path)
			if !r.Quiet {
				ux.BlockPending(b.Path)
			}
			continue
		}
		fr := r.applyBlock(b)
		report.Add(fr)
		if !r.Quiet {
			ux.BlockResult(fr)
		}
	}

	report = r.finish(report)
	if !r.Quiet {
		ux.RunSummary(report)
	}
	return report, nil
}

// Follow reads lines as they arrive and applies each block the moment it
// completes. Completed blocks are a stable prefix of the re-parse, so every
// block is applied exactly once.
func (r *Runner) Follow(ctx context.Context, lines *source.LineReader, origin string) (*state.Report, error) {
	report := state.NewReport(origin, r.DryRun)
	if !r.Quiet {
		ux.RunHeader(origin, r.DryRun)
	}

	var buf strings.Builder
	applied := 0
	for {
		line, ok := lines.Next(ctx)
		if !ok {
			break
		}
		buf.WriteString(line)
		buf.WriteByte('\n')

		ready := editblock.Ready(editblock.Parse(buf.String()))
		for _, b := range ready[applied:] {
			fr := r.applyBlock(b)
			report.Add(fr)
			if !r.Quiet {
				ux.BlockResult(fr)
			}
		}
		applied = len(ready)
	}

	for _, b := range editblock.Parse(buf.String()) {
		if !b.Complete {
			report.Pending = append(report.Pending, b.Path)
			if !r.Quiet {
				ux.BlockPending(b.Path)
			}
		}
	}

	report = r.finish(report)
	if !r.Quiet {
		ux.RunSummary(report)
	}
	return report, ctx.Err()
}

// finish stamps the duration and persists the report.
func (r *Runner) finish(report *state.Report) *state.Report {
	report.Finish()
	if r.Dir == "" || r.DryRun {
		return report
	}
	if err := report.Save(r.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save run report: %v\n", err)
		return report
	}
	if err := state.Prune(r.Dir, r.Config.History); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune history: %v\n", err)
	}
	return report
}

func (r *Runner) applyBlock(b editblock.Block) state.FileResult {
	fr := state.FileResult{Path: b.Path, Kind: b.Kind.String()}

	if !r.Config.Allowed(b.Path) {
		fr.Errors = append(fr.Errors, fmt.Sprintf("%s: denied by config", b.Path))
		return fr
	}
	target, err := store.Resolve(r.Config.Root, b.Path)
	if err != nil {
		fr.Errors = append(fr.Errors, err.Error())
		return fr
	}

	switch b.Kind {
	case editblock.FullReplace:
		if prev, err := store.Read(target); err == nil {
			fr.BeforeSum = state.Sum(prev)
		}
		fr.AfterSum = state.Sum(b.Content)
		if r.DryRun {
			fr.Success = true
			return fr
		}
		if err := store.Write(target, b.Content, r.Config.Backup); err != nil {
			fr.Errors = append(fr.Errors, err.Error())
			return fr
		}
		fr.Success = true

	case editblock.SearchReplace:
		fr.Pairs = len(b.Pairs)
		doc, err := store.Read(target)
		if err != nil {
			fr.Errors = append(fr.Errors, fmt.Sprintf("%s: cannot read target: %v", b.Path, err))
			return fr
		}
		fr.BeforeSum = state.Sum(doc)

		out := patch.Apply(b.Path, doc, b.Pairs)
		fr.Applied = len(out.Steps)
		for _, step := range out.Steps {
			fr.Strategies = append(fr.Strategies, step.Strategy.String())
		}
		for _, e := range out.Errors {
			fr.Errors = append(fr.Errors, e.Error())
			fr.FailedPairs = append(fr.FailedPairs, state.FailedPair{
				Index:  e.Pair,
				Search: b.Pairs[e.Pair].Search,
			})
		}
		if !out.Success {
			return fr
		}

		fr.AfterSum = state.Sum(out.Content)
		if r.DryRun {
			fr.Success = true
			return fr
		}
		if err := store.Write(target, out.Content, r.Config.Backup); err != nil {
			fr.Errors = append(fr.Errors, err.Error())
			return fr
		}
		fr.Success = true
	}
	return fr
}

// ScanPrint shows the block plan for text without touching any file.
func ScanPrint(text string) {
	blocks := editblock.Parse(text)
	if len(blocks) == 0 {
		fmt.Printf("\n%s(no edit blocks found)%s\n\n", ux.Dim, ux.Reset)
		return
	}
	fmt.Printf("\n%sScan — %d blocks:%s\n\n", ux.Bold, len(blocks), ux.Reset)
	for i, b := range blocks {
		suffix := ""
		if !b.Complete {
			suffix = fmt.Sprintf(" %s— incomplete%s", ux.Yellow, ux.Reset)
		}
		fmt.Printf("  %s%d.%s %s%s%s (%s)%s\n",
			ux.Cyan, i+1, ux.Reset, ux.Bold, b.Path, ux.Reset, b.Kind, suffix)

		switch b.Kind {
		case editblock.FullReplace:
			lines := strings.Count(b.Content, "\n") + 1
			if b.Content == "" {
				lines = 0
			}
			fmt.Printf("     %d lines\n", lines)
		case editblock.SearchReplace:
			for j, p := range b.Pairs {
				fmt.Printf("     pair %d: %s\n", j+1, patch.Preview(p.Search))
			}
		}
	}
	fmt.Println()
}
