// Package store performs guarded disk access for applied edits. Every
// target is resolved against a root directory and written atomically.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve joins a block path onto root, rejecting paths that would land
// outside it. Block paths are always root-relative: absolute paths and
// parent references are refused.
func Resolve(root, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty file path")
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute file path not allowed: %s", path)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes root: %s", path)
	}
	return filepath.Join(root, clean), nil
}

// Read returns the content of the file at target.
func Read(target string) (string, error) {
	data, err := os.ReadFile(target)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the file at target with content, creating parent
// directories as needed. With backup set, the previous content (if any) is
// kept next to the file with a .bak suffix.
func Write(target, content string, backup bool) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if backup {
		if prev, err := os.ReadFile(target); err == nil {
			if err := WriteFile(target+".bak", prev); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}
		}
	}
	return WriteFile(target, []byte(content))
}

// WriteFile lands data at path atomically: the bytes are staged in a
// temporary file beside the target, synced, and renamed into place, so a
// crash mid-write cannot leave a torn file. Staging beside the target keeps
// the rename on one filesystem.
func WriteFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// CreateTemp stages owner-only; applied files are ordinary 0644.
	if err := os.Chmod(tmp, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
