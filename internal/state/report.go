// Package state persists run reports under the .stitch/history directory.
package state

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"lukechampine.com/blake3"
)

// FailedPair records a search text that found no match, in full, so doctor
// can re-diagnose it against the current file later.
type FailedPair struct {
	Index  int    `json:"index"`
	Search string `json:"search"`
}

// FileResult is the outcome of one edit block.
type FileResult struct {
	Path        string       `json:"path"`
	Kind        string       `json:"kind"`
	Success     bool         `json:"success"`
	Pairs       int          `json:"pairs,omitempty"`
	Applied     int          `json:"applied,omitempty"`
	Strategies  []string     `json:"strategies,omitempty"`
	BeforeSum   string       `json:"before_sum,omitempty"`
	AfterSum    string       `json:"after_sum,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
	FailedPairs []FailedPair `json:"failed_pairs,omitempty"`
}

// Report describes one apply run.
type Report struct {
	RunID     string       `json:"run_id"`
	StartedAt time.Time    `json:"started_at"`
	Duration  string       `json:"duration,omitempty"`
	Source    string       `json:"source"`
	DryRun    bool         `json:"dry_run,omitempty"`
	Files     []FileResult `json:"files"`
	Pending   []string     `json:"pending,omitempty"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// NewReport starts a report for a run reading from the given source.
func NewReport(source string, dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Source:    source,
		DryRun:    dryRun,
	}
}

// Add appends a file result and updates the tallies.
func (r *Report) Add(fr FileResult) {
	r.Files = append(r.Files, fr)
	if fr.Success {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// Finish stamps the run duration.
func (r *Report) Finish() {
	r.Duration = formatDuration(time.Since(r.StartedAt))
}

// Sum returns the blake3 hex digest of content, used to fingerprint
// document versions across runs.
func Sum(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}
