package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoInput is returned when no payload file is specified.
	ErrNoInput = errors.New("no input specified: provide at least one analysis payload file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent renders, effectively
	// stopping the rendering process.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown, and --pdf is specified. Only one output format can be
	// used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --json, --markdown, --pdf")

	// ErrRawRequiresJSON is returned when --raw is used without --json.
	// Raw mode re-emits the backend payload, which only makes sense as JSON.
	ErrRawRequiresJSON = errors.New("--raw requires --json")

	// ErrInvalidRetention is returned when the history retention is negative.
	// Use 0 to keep every run.
	ErrInvalidRetention = errors.New("invalid retention: must be non-negative")
)
