package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".tradelens"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .tradelens configuration file.
// Flags always win over file settings; the file only supplies defaults.
type File struct {
	// DefaultFormat is the output format used when no format flag is given:
	// "text", "json", "markdown", or "pdf".
	DefaultFormat string `yaml:"defaultFormat,omitempty"`

	// DefaultSection is the section rendered when --section is not given.
	DefaultSection string `yaml:"defaultSection,omitempty"`

	// HistoryRetention overrides the number of runs kept in the history
	// store. Zero means keep the built-in default.
	HistoryRetention int `yaml:"historyRetention,omitempty"`

	// HistoryDir overrides the history database directory.
	HistoryDir string `yaml:"historyDir,omitempty"`

	// OutputDir is prepended to relative --output paths.
	OutputDir string `yaml:"outputDir,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .tradelens in the current directory
// 3. Look for .tradelens in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges file settings into the config. Only fields the user has not
// already set via flags are overwritten.
func (c *Config) Apply(cf *File) {
	if cf == nil {
		return
	}
	c.FileSettings = cf

	if !c.JSONReport && !c.MarkdownReport && !c.PDFReport {
		switch cf.DefaultFormat {
		case "json":
			c.JSONReport = true
		case "markdown":
			c.MarkdownReport = true
		case "pdf":
			c.PDFReport = true
		}
	}
	if c.Section == "" {
		c.Section = cf.DefaultSection
	}
	if cf.HistoryRetention > 0 {
		c.Retention = cf.HistoryRetention
	}
	if cf.HistoryDir != "" {
		c.HistoryDir = cf.HistoryDir
	}
	if cf.OutputDir != "" && c.OutputPath != "" && !filepath.IsAbs(c.OutputPath) {
		c.OutputPath = filepath.Join(cf.OutputDir, c.OutputPath)
	}
}
