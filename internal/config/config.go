package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the comparison backend's defaults where applicable.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "tradelens"

	// DefaultRetention is the number of analysis runs kept in the history
	// store. The backend's run memory keeps the same count, so trend charts
	// look identical whether they come from the backend payload or from
	// local history.
	DefaultRetention = 10

	// DefaultBatchSize of 4 concurrent renders balances throughput with
	// memory usage. Rendering is CPU-bound JSON and layout work, so there
	// is little to gain beyond the typical core count.
	DefaultBatchSize = 4
)

// Config holds all configuration options for tradelens.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., RenderConfig, HistoryConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Inputs is the list of payload files to render.
	// Must contain at least one path.
	Inputs []string

	// Section selects the dashboard section to render.
	// Empty or unknown names degrade to the overview, which shows
	// every section.
	Section string

	// JSONReport enables JSON output instead of human-readable text.
	// Mutually exclusive with MarkdownReport and PDFReport.
	JSONReport bool

	// MarkdownReport enables Markdown output instead of human-readable text.
	// Mutually exclusive with JSONReport and PDFReport.
	MarkdownReport bool

	// PDFReport enables PDF output instead of human-readable text.
	// Mutually exclusive with JSONReport and MarkdownReport.
	PDFReport bool

	// RawJSON re-emits the backend payload untouched instead of the
	// projected model. Requires JSONReport.
	RawJSON bool

	// OutputPath is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	OutputPath string

	// BatchSize is the number of concurrent renders when processing
	// multiple payload files.
	BatchSize int

	// SaveHistory indicates whether rendered runs are saved to the
	// history store.
	SaveHistory bool

	// HistoryDir is the directory for the history database.
	// Defaults to the XDG data directory.
	HistoryDir string

	// Retention is the number of runs kept in the history store.
	Retention int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .tradelens in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileSettings holds settings loaded from the config file.
	// This is populated by LoadConfigFile.
	FileSettings *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (retention, batch size).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize:  DefaultBatchSize,
		Retention:  DefaultRetention,
		HistoryDir: XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for tradelens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/tradelens
// On macOS: ~/Library/Application Support/tradelens
// On Windows: %LOCALAPPDATA%\tradelens
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tradelens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/tradelens
// On macOS: ~/Library/Application Support/tradelens
// On Windows: %APPDATA%\tradelens
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any rendering begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one payload file to render
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	// BatchSize must be positive; zero would mean no rendering
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// Only one output format at a time
	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.PDFReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	// Raw output is a JSON re-emission; other formats have nothing raw to show
	if c.RawJSON && !c.JSONReport {
		return ErrRawRequiresJSON
	}

	// Retention must be non-negative; zero disables pruning
	if c.Retention < 0 {
		return ErrInvalidRetention
	}

	return nil
}
