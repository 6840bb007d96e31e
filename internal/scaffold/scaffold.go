package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stitchkit/stitch/internal/config"
	"github.com/stitchkit/stitch/internal/state"
	"github.com/stitchkit/stitch/internal/ux"
)

var configTemplate = `# stitch configuration. Paths resolve relative to the directory
# holding .stitch/ unless absolute.

# Directory that edit block paths resolve against.
root: .

# Keep a .bak copy of each file before overwriting it.
backup: false

# Exit non-zero when any block in a run fails to apply.
strict: false

# Glob patterns for paths stitch may write. An empty allow list admits
# everything under root. Deny wins over allow.
#allow:
#  - "src/**"
#deny:
#  - "vendor/**"

# Run reports kept under .stitch/history before old ones are pruned.
history: 20
`

// Init creates a new .stitch/ directory with a default config and an
// empty history directory.
func Init(targetDir string) error {
	stitchDir := filepath.Join(targetDir, config.DirName)
	if _, err := os.Stat(stitchDir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", config.DirName, targetDir)
	}

	if err := os.MkdirAll(state.HistoryDir(stitchDir), 0755); err != nil {
		return fmt.Errorf("creating %s/history: %w", config.DirName, err)
	}

	configPath := filepath.Join(stitchDir, config.FileName)
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", config.FileName, err)
	}

	gitignorePath := filepath.Join(stitchDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("history/\n"), 0644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Printf("\n%s%s✓ Initialized .stitch/ directory%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %s.stitch/config.yaml%s — apply configuration\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.stitch/history/%s    — run reports (gitignored)\n\n", ux.Cyan, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Edit %s.stitch/config.yaml%s to set root and allow patterns\n", ux.Cyan, ux.Reset)
	fmt.Printf("    2. Pipe a response through %sstitch apply --dry-run%s to preview\n", ux.Cyan, ux.Reset)
	fmt.Printf("    3. Run %sstitch docs quickstart%s for a walkthrough\n\n", ux.Cyan, ux.Reset)

	return nil
}
