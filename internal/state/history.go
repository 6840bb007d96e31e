package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stitchkit/stitch/internal/store"
)

// HistoryDir returns the report directory under the stitch dir.
func HistoryDir(dir string) string {
	return filepath.Join(dir, "history")
}

// EnsureDir creates the .stitch directory structure.
func EnsureDir(dir string) error {
	for _, d := range []string{dir, HistoryDir(dir)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}
	return nil
}

// Save writes the report to history/run-<id>.json.
func (r *Report) Save(dir string) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(HistoryDir(dir), "run-"+r.RunID+".json")
	return store.WriteFile(path, data)
}

// LoadReports returns all saved reports, newest first. Unreadable entries
// are skipped: one corrupt file must not hide the rest of the history.
func LoadReports(dir string) ([]*Report, error) {
	files, err := readAll(dir)
	if err != nil {
		return nil, err
	}
	reports := make([]*Report, 0, len(files))
	for _, f := range files {
		reports = append(reports, f.report)
	}
	return reports, nil
}

// LoadReport finds a single report by run ID prefix.
func LoadReport(dir, id string) (*Report, error) {
	if id == "" {
		return nil, fmt.Errorf("empty run id")
	}
	files, err := readAll(dir)
	if err != nil {
		return nil, err
	}
	var found *Report
	for _, f := range files {
		if strings.HasPrefix(f.report.RunID, id) {
			if found != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", id)
			}
			found = f.report
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no run matching %q", id)
	}
	return found, nil
}

// Prune deletes the oldest reports beyond keep.
func Prune(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	files, err := readAll(dir)
	if err != nil {
		return err
	}
	for _, f := range files[min(keep, len(files)):] {
		if err := os.Remove(f.path); err != nil {
			return err
		}
	}
	return nil
}

type reportFile struct {
	path   string
	report *Report
}

// readAll loads every report file, sorted newest first.
func readAll(dir string) ([]reportFile, error) {
	entries, err := os.ReadDir(HistoryDir(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []reportFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "run-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(HistoryDir(dir), name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var r Report
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		out = append(out, reportFile{path: path, report: &r})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].report.StartedAt.After(out[j].report.StartedAt)
	})
	return out, nil
}
