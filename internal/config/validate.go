package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate checks the config for errors and sets defaults. Root is expanded
// against the environment, so config files can say `root: $HOME/site`.
func Validate(cfg *Config) error {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = os.Expand(cfg.Root, os.Getenv)

	if cfg.History < 0 {
		return fmt.Errorf("config: 'history' must be >= 0")
	}
	if cfg.History == 0 {
		cfg.History = 20
	}

	for _, pattern := range cfg.Allow {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("config: 'allow' entries must be non-empty")
		}
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("config: 'allow' pattern %q is not a valid glob", pattern)
		}
	}
	for _, pattern := range cfg.Deny {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("config: 'deny' entries must be non-empty")
		}
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("config: 'deny' pattern %q is not a valid glob", pattern)
		}
	}

	return nil
}

// Allowed reports whether a block path may be written. Deny patterns win
// over allow patterns; an empty allow list admits every path.
func (c *Config) Allowed(path string) bool {
	for _, pattern := range c.Deny {
		matched, _ := doublestar.Match(pattern, path)
		if matched {
			return false
		}
	}
	if len(c.Allow) == 0 {
		return true
	}
	for _, pattern := range c.Allow {
		matched, _ := doublestar.Match(pattern, path)
		if matched {
			return true
		}
	}
	return false
}
