package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tradelens/tradelens/internal/batch"
	"github.com/tradelens/tradelens/internal/config"
	"github.com/tradelens/tradelens/internal/history"
	"github.com/tradelens/tradelens/internal/log"
	"github.com/tradelens/tradelens/internal/model"
	"github.com/tradelens/tradelens/internal/projector"
	"github.com/tradelens/tradelens/internal/report"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [payload.json]",
		Short: "Render an analysis payload as a report",
		Long: `Render projects an analysis payload from the trade-document comparison
backend into a display-ready report.

The payload is the JSON the backend returns after a multi-document upload.
Rendering degrades gracefully: missing sub-reports become placeholders, and
only a null payload is rejected.

Examples:
  # Render a payload as human-readable text
  tradelens render result.json

  # Render only the comparison section
  tradelens render --section comparison result.json

  # Render several payloads concurrently
  tradelens render --batch 4 run1.json run2.json run3.json

  # Emit the projected model as JSON
  tradelens render --json result.json

  # Re-emit the backend payload untouched
  tradelens render --json --raw result.json

  # Write a PDF report and save the run to the history store
  tradelens render --pdf -o reports/result.pdf --save result.json

Configuration file (.tradelens) example:
  defaultFormat: markdown
  defaultSection: overview
  historyRetention: 10
  outputDir: reports`,
		Args: cobra.ArbitraryArgs,
		RunE: runRenderCmd,
	}

	// Report format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --pdf)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --pdf)")
	cmd.Flags().BoolP("pdf", "p", false,
		"Output PDF report (mutually exclusive with --json and --markdown)")
	cmd.Flags().Bool("raw", false,
		"Re-emit the backend payload untouched (requires --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path, or directory with multiple inputs (creates directories if needed)")

	// Projection flags
	cmd.Flags().StringP("section", "s", "",
		"Dashboard section to render (overview, upload, cognitive, sanctions, comparison, analysis)")

	// Batch rendering flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent renders")

	// History flags
	cmd.Flags().Bool("save", false,
		"Save the rendered run to the history store")
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tradelens in current or home directory)")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with sanitization; payloads carry
	// counterparty banking details that must not reach the logs.
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runRender(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	// Get flag values
	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.PDFReport, err = cmd.Flags().GetBool("pdf")
	if err != nil {
		return nil, err
	}

	cfg.RawJSON, err = cmd.Flags().GetBool("raw")
	if err != nil {
		return nil, err
	}

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Section, err = cmd.Flags().GetString("section")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.SaveHistory, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	historyDir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return nil, err
	}
	if historyDir != "" {
		cfg.HistoryDir = historyDir
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load defaults from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		fileSettings, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(fileSettings)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Get positional arguments (payload files)
	cfg.Inputs = args

	return cfg, nil
}

// runRender executes the render.
func runRender(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting render",
		"inputs", cfg.Inputs,
		"section", cfg.Section,
		"batchSize", cfg.BatchSize,
		"saveHistory", cfg.SaveHistory,
	)

	// Open the history store when saving is enabled. The store also feeds
	// recurrence detection for payloads without a risk history of their own.
	var store *history.Store
	if cfg.SaveHistory {
		opts := history.DefaultOptions()
		opts.Retention = cfg.Retention
		var err error
		store, err = history.Open(cfg.HistoryDir, opts)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
		logger.Info("history store opened", "dir", cfg.HistoryDir)
	}

	// Use batch processor for parallel rendering if multiple payloads
	if len(cfg.Inputs) > 1 && cfg.BatchSize > 1 {
		return runBatchRender(ctx, cfg, store, logger)
	}

	// Single payload or sequential rendering
	return runSequentialRender(ctx, cfg, store, logger)
}

// runSequentialRender renders payloads one at a time.
func runSequentialRender(ctx context.Context, cfg *config.Config, store *history.Store, logger *slog.Logger) error {
	for _, input := range cfg.Inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		startTime := time.Now()

		payload, m, err := renderPayload(ctx, cfg, store, input)
		if err != nil {
			logger.Error("render failed", "file", input, "error", err)
			fmt.Fprintf(os.Stderr, "Render error for %s: %v\n", input, err)
			continue
		}

		logger.Debug("payload projected", "file", input, "elapsed", time.Since(startTime).Round(time.Millisecond))

		// With multiple inputs --output names a directory; each payload gets
		// its own report file so renders don't overwrite each other.
		fileCfg := *cfg
		if cfg.OutputPath != "" && len(cfg.Inputs) > 1 {
			fileCfg.OutputPath = filepath.Join(cfg.OutputPath, reportFileName(input, cfg))
		}

		// Output report
		if err := outputReport(&fileCfg, payload, m); err != nil {
			logger.Error("report failed", "file", input, "error", err)
		}

		// Save to history store if enabled
		if err := saveRun(ctx, store, payload, input, logger); err != nil {
			logger.Error("failed to save run", "file", input, "error", err)
		}
	}

	return nil
}

// runBatchRender renders multiple payloads concurrently using the batch
// processor.
func runBatchRender(ctx context.Context, cfg *config.Config, store *history.Store, logger *slog.Logger) error {
	fmt.Printf("Starting batch render of %d payloads (concurrency: %d)...\n\n",
		len(cfg.Inputs), cfg.BatchSize)

	startTime := time.Now()

	// Payloads are kept alongside the models so runs can be saved after
	// rendering without re-reading the files.
	payloads := make(map[string]*model.AnalysisReport, len(cfg.Inputs))
	var payloadMu sync.Mutex

	bp := batch.NewProcessor(
		func(ctx context.Context, path string) (*model.RenderModel, error) {
			payload, m, err := renderPayload(ctx, cfg, store, path)
			if err != nil {
				return nil, err
			}
			payloadMu.Lock()
			payloads[path] = payload
			payloadMu.Unlock()
			return m, nil
		},
		batch.WithConcurrency(cfg.BatchSize),
		batch.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Inputs, func(result batch.Result, index int) {
		mu.Lock()
		defer mu.Unlock()

		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Render error for %s: %v\n",
				index+1, len(cfg.Inputs), result.Path, result.Err)
			return
		}

		fmt.Printf("[%d/%d] Render completed: %s\n", index+1, len(cfg.Inputs), result.Path)

		payloadMu.Lock()
		payload := payloads[result.Path]
		payloadMu.Unlock()

		// In batch mode --output names a directory; each payload gets its
		// own report file so renders don't overwrite each other.
		fileCfg := *cfg
		if cfg.OutputPath != "" {
			fileCfg.OutputPath = filepath.Join(cfg.OutputPath, reportFileName(result.Path, cfg))
		}

		// Output report
		if err := outputReport(&fileCfg, payload, result.Model); err != nil {
			logger.Error("report failed", "file", result.Path, "error", err)
		}

		// Save to history store if enabled
		if err := saveRun(ctx, store, payload, result.Path, logger); err != nil {
			logger.Error("failed to save run", "file", result.Path, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch render completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// reportFileName derives the report file name for one batch input from the
// input's base name and the selected output format.
func reportFileName(inputPath string, cfg *config.Config) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	switch {
	case cfg.JSONReport:
		return base + ".json"
	case cfg.MarkdownReport:
		return base + ".md"
	case cfg.PDFReport:
		return base + ".pdf"
	default:
		return base + ".txt"
	}
}

// renderPayload loads one payload file and projects it into a render model.
// When a history store is available and the payload carries no risk history
// of its own, the trend and recurrence data are filled in from stored runs.
func renderPayload(ctx context.Context, cfg *config.Config, store *history.Store, path string) (*model.AnalysisReport, *model.RenderModel, error) {
	payload, err := loadAnalysisReport(path)
	if err != nil {
		return nil, nil, err
	}

	if store != nil && payload.RiskHistory == nil {
		riskHistory, err := store.Recurrence(ctx, payload)
		if err != nil {
			slog.Warn("recurrence lookup failed", "file", path, "error", err)
		} else if riskHistory.TotalRecords > 0 {
			payload.RiskHistory = riskHistory
		}
	}

	m, err := projector.Project(payload,
		projector.WithSection(model.ParseSection(cfg.Section)),
	)
	if err != nil {
		return nil, nil, err
	}

	return payload, m, nil
}

// loadAnalysisReport reads and parses an analysis payload file.
// A JSON null payload is the only fatal input; everything else degrades
// to placeholders during projection.
func loadAnalysisReport(path string) (*model.AnalysisReport, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided payload path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	var payload *model.AnalysisReport
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse payload %s: %w", path, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%s: %w", path, projector.ErrNilReport)
	}

	return payload, nil
}

// outputReport outputs the render model in the requested format.
func outputReport(cfg *config.Config, payload *model.AnalysisReport, m *model.RenderModel) error {
	// Determine output destination
	var output io.Writer
	if cfg.OutputPath != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.OutputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600)
		// Reports carry counterparty and banking details that should only
		// be readable by the owner
		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output
	if cfg.JSONReport {
		if cfg.RawJSON {
			// Re-emit the backend payload untouched
			writer := report.NewJSONWriter(output, report.WithPrettyPrint())
			_, err := writer.WriteRaw(payload)
			return err
		}
		// The exported model is wrapped with the tool version that produced it.
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(m)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(m)
		return err
	}

	// PDF output
	if cfg.PDFReport {
		writer := report.NewPDFWriter(output)
		_, err := writer.Write(m)
		return err
	}

	// Human-readable report (default)
	writer := report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(m)
	return err
}

// saveRun saves the rendered run to the history store if enabled.
// If store is nil, this function is a no-op.
func saveRun(ctx context.Context, store *history.Store, payload *model.AnalysisReport, path string, logger *slog.Logger) error {
	if store == nil {
		return nil
	}

	id, err := store.SaveRun(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to history store", "file", path, "run_id", id)
	return nil
}
