// Package source acquires edit text from a file, piped stdin, or the
// clipboard.
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// Read returns the edit text and its origin tag. An explicit path wins;
// otherwise piped stdin; otherwise the clipboard.
func Read(path string) (string, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), path, nil
	}

	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return "", "", fmt.Errorf("reading clipboard: %w", err)
	}
	return content, "clipboard", nil
}
