package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tradelens/tradelens/internal/model"
)

// Store provides SQLite-based storage for analysis runs.
// It manages connection pooling and provides methods for saving, listing,
// and comparing runs.
//
// Design decision: We use a single database file for all runs rather than
// one file per shipment. Recurrence detection and run comparison are
// cross-run queries, and a single file keeps backup/restore trivial.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// retention is the maximum number of runs kept. Zero disables pruning.
	retention int
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool

	// Retention is the maximum number of runs kept. Saving a run beyond
	// this count prunes the oldest. Zero keeps everything.
	Retention int
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		Retention:         10,
	}
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "tradelens.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:        db,
		dbPath:    dbPath,
		retention: opts.Retention,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Analysis runs store complete payloads as JSON plus indexed summary columns
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		cognitive_score REAL,
		risk_tier TEXT,
		mismatch_count INTEGER DEFAULT 0,
		exporters TEXT,
		ports TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON analysis_runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_tier ON analysis_runs(risk_tier);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading the full payload.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Timestamp is when the run was saved.
	Timestamp time.Time

	// CognitiveScore is the run's overall score; nil when the payload
	// carried no score.
	CognitiveScore *float64

	// RiskTier is the qualitative tier derived from the score.
	RiskTier string

	// MismatchCount is the number of mismatch report entries.
	MismatchCount int

	// Exporters and Ports are the entities seen in the run.
	Exporters []string
	Ports     []string
}

// SaveRun stores an analysis run and prunes history beyond the retention
// limit. Returns the new run's ID.
func (s *Store) SaveRun(ctx context.Context, report *model.AnalysisReport) (int64, error) {
	if report == nil {
		return 0, fmt.Errorf("cannot save a nil report")
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tier := ""
	var score any
	if report.CognitiveScore != nil {
		score = *report.CognitiveScore
		tier = model.CognitiveTier(*report.CognitiveScore).String()
	}

	exporters, ports := runEntities(report)
	exportersJSON, _ := json.Marshal(exporters) //nolint:errcheck,errchkjson // string slices; Marshal won't fail
	portsJSON, _ := json.Marshal(ports)         //nolint:errcheck,errchkjson // string slices; Marshal won't fail

	query := `
	INSERT INTO analysis_runs (cognitive_score, risk_tier, mismatch_count, exporters, ports, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		score,
		tier,
		len(report.MismatchReport),
		string(exportersJSON),
		string(portsJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	if err := s.prune(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// prune deletes the oldest runs beyond the retention limit.
func (s *Store) prune(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}

	query := `
	DELETE FROM analysis_runs
	WHERE id NOT IN (
		SELECT id FROM analysis_runs ORDER BY id DESC LIMIT ?
	)
	`
	if _, err := s.db.ExecContext(ctx, query, s.retention); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// ListRuns returns metadata for all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunMetadata, error) {
	query := `
	SELECT id, timestamp, cognitive_score, risk_tier, mismatch_count, exporters, ports
	FROM analysis_runs
	ORDER BY id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListRunsSince returns metadata for runs saved at or after the given time,
// newest first.
func (s *Store) ListRunsSince(ctx context.Context, since time.Time) ([]RunMetadata, error) {
	query := `
	SELECT id, timestamp, cognitive_score, risk_tier, mismatch_count, exporters, ports
	FROM analysis_runs
	WHERE timestamp >= ?
	ORDER BY id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, since.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, meta)
	}

	return results, rows.Err()
}

// scanMetadata reads one metadata row.
func scanMetadata(rows *sql.Rows) (RunMetadata, error) {
	var meta RunMetadata
	var timestamp string
	var score sql.NullFloat64
	var exportersJSON, portsJSON sql.NullString

	if err := rows.Scan(&meta.ID, &timestamp, &score, &meta.RiskTier, &meta.MismatchCount, &exportersJSON, &portsJSON); err != nil {
		return meta, fmt.Errorf("failed to scan run metadata: %w", err)
	}

	meta.Timestamp = parseTimestamp(timestamp)
	if score.Valid {
		v := score.Float64
		meta.CognitiveScore = &v
	}
	if exportersJSON.Valid && exportersJSON.String != "" {
		_ = json.Unmarshal([]byte(exportersJSON.String), &meta.Exporters) //nolint:errcheck // malformed rows degrade to empty
	}
	if portsJSON.Valid && portsJSON.String != "" {
		_ = json.Unmarshal([]byte(portsJSON.String), &meta.Ports) //nolint:errcheck // malformed rows degrade to empty
	}
	return meta, nil
}

// GetRun retrieves a stored run's payload by its database ID.
// Returns nil without error when no run has that ID.
func (s *Store) GetRun(ctx context.Context, id int64) (*model.AnalysisReport, error) {
	query := `
	SELECT report_json FROM analysis_runs
	WHERE id = ?
	`

	var reportJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}

	return &report, nil
}

// LatestRun retrieves the most recently saved run's payload along with its
// metadata ID. Returns nil without error when the store is empty.
func (s *Store) LatestRun(ctx context.Context) (*model.AnalysisReport, int64, error) {
	query := `
	SELECT id, report_json FROM analysis_runs
	ORDER BY id DESC
	LIMIT 1
	`

	var id int64
	var reportJSON string
	err := s.db.QueryRowContext(ctx, query).Scan(&id, &reportJSON)
	if err == sql.ErrNoRows {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get latest run: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, 0, fmt.Errorf("failed to parse run: %w", err)
	}

	return &report, id, nil
}

// runEntities extracts the unique exporters and destination ports seen in a
// run, in document order.
func runEntities(report *model.AnalysisReport) (exporters, ports []string) {
	seenExporter := make(map[string]bool)
	seenPort := make(map[string]bool)
	for _, doc := range report.ExtractedData {
		if doc.Exporter != "" && !seenExporter[doc.Exporter] {
			seenExporter[doc.Exporter] = true
			exporters = append(exporters, doc.Exporter)
		}
		if doc.PortDest != "" && !seenPort[doc.PortDest] {
			seenPort[doc.PortDest] = true
			ports = append(ports, doc.PortDest)
		}
	}
	return exporters, ports
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
