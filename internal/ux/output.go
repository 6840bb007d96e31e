package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/stitchkit/stitch/internal/state"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// RunHeader prints a timestamped header for an apply run.
func RunHeader(source string, dryRun bool) {
	label := "Applying edits"
	if dryRun {
		label = "Dry run"
	}
	fmt.Printf("\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	fmt.Printf("%s[%s]%s  %s%s from %s%s\n",
		Dim, timestamp(), Reset, Bold, label, source, Reset)
	fmt.Printf("%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// BlockResult prints the outcome line for one block.
func BlockResult(fr state.FileResult) {
	if fr.Success {
		detail := "replace"
		if fr.Kind == "patch" {
			detail = fmt.Sprintf("patch %d/%d: %s",
				fr.Applied, fr.Pairs, strings.Join(fr.Strategies, ", "))
		}
		fmt.Printf("  %s✓ %s%s %s(%s)%s\n", Green, fr.Path, Reset, Dim, detail, Reset)
		return
	}
	fmt.Printf("  %s✗ %s%s\n", Red, fr.Path, Reset)
	for _, e := range fr.Errors {
		fmt.Printf("     %s%s%s\n", Dim, e, Reset)
	}
}

// BlockPending prints a block that never completed in the input.
func BlockPending(path string) {
	fmt.Printf("  %s– %s pending (incomplete block)%s\n", Dim, path, Reset)
}

// RunSummary prints the final tally for a run.
func RunSummary(r *state.Report) {
	color := Green
	if r.Failed > 0 {
		color = Red
	}
	line := fmt.Sprintf("══ %d applied, %d failed", r.Succeeded, r.Failed)
	if len(r.Pending) > 0 {
		line += fmt.Sprintf(", %d pending", len(r.Pending))
	}
	if r.Duration != "" {
		line += fmt.Sprintf(" (%s)", r.Duration)
	}
	line += " ══"
	fmt.Printf("\n%s[%s]%s  %s%s%s%s\n\n", Dim, timestamp(), Reset, Bold, color, line, Reset)
}
