package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the project dot-directory stitch keeps its files in.
	DirName = ".stitch"
	// FileName is the config file inside DirName.
	FileName = "config.yaml"
)

// Config controls where and how edit blocks are applied to disk.
type Config struct {
	Root    string   `yaml:"root"`
	Backup  bool     `yaml:"backup"`
	Strict  bool     `yaml:"strict"`
	Allow   []string `yaml:"allow"`
	Deny    []string `yaml:"deny"`
	History int      `yaml:"history"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{Root: ".", History: 20}
}

// Load reads a YAML config file and returns a validated Config. A missing
// file is not an error: it yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
