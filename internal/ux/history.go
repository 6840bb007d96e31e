package ux

import (
	"fmt"

	"github.com/stitchkit/stitch/internal/state"
)

// RenderHistory prints recent runs, newest first.
func RenderHistory(reports []*state.Report, limit int) {
	if len(reports) == 0 {
		fmt.Printf("%s(no runs recorded)%s\n", Dim, Reset)
		return
	}
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	for _, r := range reports {
		status := fmt.Sprintf("%s%d✓%s", Green, r.Succeeded, Reset)
		if r.Failed > 0 {
			status += fmt.Sprintf(" %s%d✗%s", Red, r.Failed, Reset)
		}
		mode := ""
		if r.DryRun {
			mode = fmt.Sprintf(" %s(dry run)%s", Dim, Reset)
		}
		fmt.Printf("  %s%s%s  %s  %-10s %s %s(%s)%s%s\n",
			Cyan, shortID(r.RunID), Reset,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Source, status, Dim, r.Duration, Reset, mode)
	}
}

// RenderReport prints the full detail of one run.
func RenderReport(r *state.Report) {
	fmt.Printf("%sRun:%s      %s\n", Bold, Reset, r.RunID)
	fmt.Printf("%sStarted:%s  %s\n", Bold, Reset, r.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%sSource:%s   %s\n", Bold, Reset, r.Source)
	if r.Duration != "" {
		fmt.Printf("%sDuration:%s %s\n", Bold, Reset, r.Duration)
	}
	if r.DryRun {
		fmt.Printf("%sMode:%s     dry run\n", Bold, Reset)
	}

	fmt.Printf("\n%sFiles:%s\n", Bold, Reset)
	if len(r.Files) == 0 {
		fmt.Printf("  %s(none)%s\n", Dim, Reset)
	}
	for _, f := range r.Files {
		BlockResult(f)
	}

	if len(r.Pending) > 0 {
		fmt.Printf("\n%sPending:%s\n", Bold, Reset)
		for _, p := range r.Pending {
			fmt.Printf("  %s– %s%s\n", Dim, p, Reset)
		}
	}
	fmt.Println()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
