// Package doctor explains why pairs from the last failed run found no
// match, by re-reading the files as they are now.
package doctor

import (
	"fmt"
	"strings"

	"github.com/stitchkit/stitch/internal/patch"
	"github.com/stitchkit/stitch/internal/state"
	"github.com/stitchkit/stitch/internal/store"
	"github.com/stitchkit/stitch/internal/ux"
)

// Run loads the most recent report that has failures and prints a diagnosis
// for every failed block, checked against the current file content.
func Run(dir, root string) error {
	reports, err := state.LoadReports(dir)
	if err != nil {
		return err
	}
	var target *state.Report
	for _, r := range reports {
		if r.Failed > 0 {
			target = r
			break
		}
	}
	if target == nil {
		fmt.Println("No failed run to diagnose.")
		return nil
	}

	fmt.Printf("\n%s%s══ Doctor: run %s (%d failed) ══%s\n\n",
		ux.Bold, ux.Cyan, target.RunID, target.Failed, ux.Reset)

	for _, f := range target.Files {
		if f.Success {
			continue
		}
		fmt.Printf("  %s✗ %s%s\n", ux.Red, f.Path, ux.Reset)

		targetPath, err := store.Resolve(root, f.Path)
		if err != nil {
			fmt.Printf("     %s%v%s\n", ux.Dim, err, ux.Reset)
			continue
		}
		doc, err := store.Read(targetPath)
		if err != nil {
			fmt.Printf("     %starget file missing: %s%s\n", ux.Dim, targetPath, ux.Reset)
			continue
		}

		if len(f.FailedPairs) == 0 {
			for _, e := range f.Errors {
				fmt.Printf("     %s%s%s\n", ux.Dim, e, ux.Reset)
			}
			continue
		}
		for _, fp := range f.FailedPairs {
			fmt.Printf("     pair %d: %s\n", fp.Index+1, patch.Preview(fp.Search))
			fmt.Printf("       %s%s%s\n", ux.Yellow, Diagnose(doc, fp.Search), ux.Reset)
		}
	}
	fmt.Println()
	return nil
}

// Diagnose explains why search found no match in doc during a past run,
// checked against doc as it is now.
func Diagnose(doc, search string) string {
	if strings.TrimSpace(search) == "" {
		return "the search text is empty; every pair needs literal text to find"
	}
	if m := patch.Find(doc, search); m.Found {
		return "matches the current file content; the file changed since this run, re-apply the edit"
	}
	if trimmed := strings.TrimSpace(search); strings.Contains(doc, trimmed) {
		return "matches after trimming outer whitespace; remove the leading or trailing blank lines from the search text"
	}
	if strings.Contains(fold(doc), fold(search)) {
		return "differs from the file only in letter case"
	}
	if first := firstLine(search); first != "" && strings.Contains(doc, first) {
		return "the first line matches but the rest drifts; the file content has diverged from what the edit expected"
	}
	return "no part of the search text matches this file"
}

// fold collapses whitespace and letter case for loose containment checks.
func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}
