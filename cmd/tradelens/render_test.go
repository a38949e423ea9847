package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/tradelens/tradelens/internal/config"
	"github.com/tradelens/tradelens/internal/history"
	"github.com/tradelens/tradelens/internal/model"
	"github.com/tradelens/tradelens/internal/projector"
	"github.com/tradelens/tradelens/internal/report"
)

// testPayloadJSON is a small but representative backend payload.
const testPayloadJSON = `{
	"files_processed": ["invoice.pdf", "packing_list.pdf"],
	"extracted_data": [
		{"filename": "invoice.pdf", "invoice_no": "INV-2026-001", "exporter": "Acme Ltd", "port_dest": "Rotterdam"},
		{"filename": "packing_list.pdf", "invoice_no": "INV-2026-001", "exporter": "Acme Ltd", "port_dest": "Rotterdam"}
	],
	"comparison_report": [
		{"field": "invoice_no", "values": ["INV-2026-001", "INV-2026-001"], "status": "Match"}
	],
	"mismatch_report": [
		{"field": "qty_sum", "values": [120, 118], "issue": "Quantity totals disagree", "severity": "Medium"}
	],
	"cognitive_score": 72.0,
	"cognitive_summary": "Moderate confidence across documents."
}`

// writeTestPayload writes the test payload to a temp file and returns its path.
func writeTestPayload(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte(testPayloadJSON), 0600); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}
	return path
}

// TestNewRenderCmd tests the render command creation.
func TestNewRenderCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRenderCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "render [payload.json]" {
			t.Errorf("expected use 'render [payload.json]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has markdown flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("markdown")
		if flag == nil {
			t.Fatal("expected markdown flag")
		}
		if flag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", flag.Shorthand)
		}
	})

	t.Run("has pdf flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("pdf")
		if flag == nil {
			t.Fatal("expected pdf flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
	})

	t.Run("has raw flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("raw") == nil {
			t.Fatal("expected raw flag")
		}
	})

	t.Run("has section flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("section")
		if flag == nil {
			t.Fatal("expected section flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has batch flag with default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("batch")
		if flag == nil {
			t.Fatal("expected batch flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
		if flag.DefValue != strconv.Itoa(config.DefaultBatchSize) {
			t.Errorf("expected default %d, got %q", config.DefaultBatchSize, flag.DefValue)
		}
	})

	t.Run("has save flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("save")
		if flag == nil {
			t.Fatal("expected save flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has history-dir flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("history-dir") == nil {
			t.Fatal("expected history-dir flag")
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})
}

// TestBuildConfig tests building the configuration from command flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults when no flags set", func(t *testing.T) {
		t.Parallel()

		cmd := NewRenderCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"payload.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BatchSize != config.DefaultBatchSize {
			t.Errorf("expected batch size %d, got %d", config.DefaultBatchSize, cfg.BatchSize)
		}
		if cfg.JSONReport || cfg.MarkdownReport || cfg.PDFReport {
			t.Error("expected no format flags by default")
		}
		if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "payload.json" {
			t.Errorf("expected inputs from args, got %v", cfg.Inputs)
		}
	})

	t.Run("maps format flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewRenderCmd()
		if err := cmd.ParseFlags([]string{"--json", "--raw", "-s", "comparison", "-b", "2"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"payload.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.JSONReport {
			t.Error("expected JSONReport to be true")
		}
		if !cfg.RawJSON {
			t.Error("expected RawJSON to be true")
		}
		if cfg.Section != "comparison" {
			t.Errorf("expected section 'comparison', got %q", cfg.Section)
		}
		if cfg.BatchSize != 2 {
			t.Errorf("expected batch size 2, got %d", cfg.BatchSize)
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewRenderCmd()
		missing := filepath.Join(t.TempDir(), "missing.yaml")
		if err := cmd.ParseFlags([]string{"-c", missing}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"payload.json"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("config file supplies defaults", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".tradelens")
		content := "defaultFormat: markdown\ndefaultSection: upload\nhistoryRetention: 5\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewRenderCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"payload.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.MarkdownReport {
			t.Error("expected markdown format from config file")
		}
		if cfg.Section != "upload" {
			t.Errorf("expected section 'upload', got %q", cfg.Section)
		}
		if cfg.Retention != 5 {
			t.Errorf("expected retention 5, got %d", cfg.Retention)
		}
	})

	t.Run("flags win over config file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".tradelens")
		if err := os.WriteFile(configPath, []byte("defaultFormat: markdown\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewRenderCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath, "--json"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"payload.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MarkdownReport {
			t.Error("config file format should not override the --json flag")
		}
		if !cfg.JSONReport {
			t.Error("expected JSONReport to be true")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Parallel()

	t.Run("returns false when flag not defined", func(t *testing.T) {
		t.Parallel()

		cmd := NewRenderCmd()
		if getVerboseFlag(cmd) {
			t.Error("expected false when verbose flag is not defined")
		}
	})
}

// TestLoadAnalysisReport tests payload file loading.
func TestLoadAnalysisReport(t *testing.T) {
	t.Parallel()

	t.Run("loads a valid payload", func(t *testing.T) {
		t.Parallel()

		path := writeTestPayload(t)
		payload, err := loadAnalysisReport(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(payload.FilesProcessed) != 2 {
			t.Errorf("expected 2 files, got %d", len(payload.FilesProcessed))
		}
		if payload.CognitiveScore == nil || *payload.CognitiveScore != 72.0 {
			t.Error("expected cognitive score 72.0")
		}
	})

	t.Run("null payload is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "null.json")
		if err := os.WriteFile(path, []byte("null"), 0600); err != nil {
			t.Fatalf("failed to write payload: %v", err)
		}

		_, err := loadAnalysisReport(path)
		if !errors.Is(err, projector.ErrNilReport) {
			t.Errorf("expected ErrNilReport, got %v", err)
		}
	})

	t.Run("malformed JSON errors", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write payload: %v", err)
		}

		if _, err := loadAnalysisReport(path); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Parallel()

		if _, err := loadAnalysisReport(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Error("expected a read error")
		}
	})

	t.Run("empty object degrades to placeholders", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.json")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write payload: %v", err)
		}

		payload, err := loadAnalysisReport(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The projection of an empty payload must still succeed.
		if _, err := projector.Project(payload); err != nil {
			t.Errorf("unexpected projection error: %v", err)
		}
	})
}

// TestOutputReport tests format selection and file output.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	loadModel := func(t *testing.T) (*model.AnalysisReport, *model.RenderModel) {
		t.Helper()
		payload, err := loadAnalysisReport(writeTestPayload(t))
		if err != nil {
			t.Fatalf("failed to load payload: %v", err)
		}
		m, err := projector.Project(payload)
		if err != nil {
			t.Fatalf("failed to project payload: %v", err)
		}
		return payload, m
	}

	t.Run("writes text report to file", func(t *testing.T) {
		t.Parallel()

		payload, m := loadModel(t)
		outputPath := filepath.Join(t.TempDir(), "report.txt")
		cfg := &config.Config{OutputPath: outputPath}

		if err := outputReport(cfg, payload, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "TRADELENS ANALYSIS REPORT") {
			t.Error("expected text report banner")
		}
	})

	t.Run("writes JSON report wrapped with the tool version", func(t *testing.T) {
		t.Parallel()

		payload, m := loadModel(t)
		outputPath := filepath.Join(t.TempDir(), "report.json")
		cfg := &config.Config{JSONReport: true, OutputPath: outputPath}

		if err := outputReport(cfg, payload, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		var decoded report.JSONExport
		if err := json.Unmarshal(content, &decoded); err != nil {
			t.Fatalf("expected valid JSON, got error: %v", err)
		}
		if decoded.Version != getVersion() {
			t.Errorf("expected version %q, got %q", getVersion(), decoded.Version)
		}
		if decoded.Model == nil {
			t.Fatal("expected wrapped render model")
		}
		if decoded.Model.Overview.Score != "72.0" {
			t.Errorf("expected score '72.0', got %q", decoded.Model.Overview.Score)
		}
	})

	t.Run("raw JSON re-emits the payload", func(t *testing.T) {
		t.Parallel()

		payload, m := loadModel(t)
		outputPath := filepath.Join(t.TempDir(), "raw.json")
		cfg := &config.Config{JSONReport: true, RawJSON: true, OutputPath: outputPath}

		if err := outputReport(cfg, payload, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		var decoded model.AnalysisReport
		if err := json.Unmarshal(content, &decoded); err != nil {
			t.Fatalf("expected valid payload JSON, got error: %v", err)
		}
		if len(decoded.FilesProcessed) != 2 {
			t.Errorf("expected 2 files in raw payload, got %d", len(decoded.FilesProcessed))
		}
		if strings.Contains(string(content), "active_section") {
			t.Error("raw output must not contain render model fields")
		}
	})

	t.Run("writes Markdown report", func(t *testing.T) {
		t.Parallel()

		payload, m := loadModel(t)
		outputPath := filepath.Join(t.TempDir(), "report.md")
		cfg := &config.Config{MarkdownReport: true, OutputPath: outputPath}

		if err := outputReport(cfg, payload, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# TradeLens Analysis Report") {
			t.Error("expected Markdown title")
		}
	})

	t.Run("writes PDF report", func(t *testing.T) {
		t.Parallel()

		payload, m := loadModel(t)
		outputPath := filepath.Join(t.TempDir(), "report.pdf")
		cfg := &config.Config{PDFReport: true, OutputPath: outputPath}

		if err := outputReport(cfg, payload, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.HasPrefix(string(content), "%PDF") {
			t.Error("expected PDF header")
		}
	})

	t.Run("creates output directories", func(t *testing.T) {
		t.Parallel()

		payload, m := loadModel(t)
		outputPath := filepath.Join(t.TempDir(), "nested", "dir", "report.txt")
		cfg := &config.Config{OutputPath: outputPath}

		if err := outputReport(cfg, payload, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			t.Error("expected report in nested directory")
		}
	})
}

// TestReportFileName tests batch output file naming.
func TestReportFileName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		cfg      *config.Config
		input    string
		expected string
	}{
		{"text default", &config.Config{}, "runs/result.json", "result.txt"},
		{"json", &config.Config{JSONReport: true}, "result.json", "result.json"},
		{"markdown", &config.Config{MarkdownReport: true}, "result.json", "result.md"},
		{"pdf", &config.Config{PDFReport: true}, "a/b/result.payload.json", "result.payload.pdf"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := reportFileName(tc.input, tc.cfg); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestRenderCmdEndToEnd tests the full render command execution.
func TestRenderCmdEndToEnd(t *testing.T) {
	t.Run("renders a payload to a file", func(t *testing.T) {
		payloadPath := writeTestPayload(t)
		outputPath := filepath.Join(t.TempDir(), "report.txt")

		cmd := NewRenderCmd()
		cmd.SetArgs([]string{"-o", outputPath, payloadPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "Cognitive Score: 72.0") {
			t.Error("expected rendered cognitive score in report")
		}
	})

	t.Run("save flag creates the history database", func(t *testing.T) {
		payloadPath := writeTestPayload(t)
		historyDir := t.TempDir()
		outputPath := filepath.Join(t.TempDir(), "report.txt")

		cmd := NewRenderCmd()
		cmd.SetArgs([]string{"--save", "--history-dir", historyDir, "-o", outputPath, payloadPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(historyDir, "tradelens.db")); os.IsNotExist(err) {
			t.Error("expected history database to be created")
		}
	})

	t.Run("batch mode writes one report per payload", func(t *testing.T) {
		payloadDir := t.TempDir()
		first := filepath.Join(payloadDir, "first.json")
		second := filepath.Join(payloadDir, "second.json")
		for _, path := range []string{first, second} {
			if err := os.WriteFile(path, []byte(testPayloadJSON), 0600); err != nil {
				t.Fatalf("failed to write payload: %v", err)
			}
		}

		outputDir := filepath.Join(t.TempDir(), "reports")
		cmd := NewRenderCmd()
		cmd.SetArgs([]string{"-b", "2", "-o", outputDir, first, second})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, name := range []string{"first.txt", "second.txt"} {
			if _, err := os.Stat(filepath.Join(outputDir, name)); os.IsNotExist(err) {
				t.Errorf("expected report %s in output directory", name)
			}
		}
	})

	t.Run("sequential mode writes one report per payload", func(t *testing.T) {
		payloadDir := t.TempDir()
		first := filepath.Join(payloadDir, "first.json")
		second := filepath.Join(payloadDir, "second.json")
		for _, path := range []string{first, second} {
			if err := os.WriteFile(path, []byte(testPayloadJSON), 0600); err != nil {
				t.Fatalf("failed to write payload: %v", err)
			}
		}

		outputDir := filepath.Join(t.TempDir(), "reports")
		cmd := NewRenderCmd()
		cmd.SetArgs([]string{"-b", "1", "-o", outputDir, first, second})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, name := range []string{"first.txt", "second.txt"} {
			if _, err := os.Stat(filepath.Join(outputDir, name)); os.IsNotExist(err) {
				t.Errorf("expected report %s in output directory", name)
			}
		}
	})

	t.Run("no inputs is a configuration error", func(t *testing.T) {
		cmd := NewRenderCmd()
		cmd.SetArgs([]string{})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for missing inputs")
		}
		if !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("conflicting formats is a configuration error", func(t *testing.T) {
		payloadPath := writeTestPayload(t)

		cmd := NewRenderCmd()
		cmd.SetArgs([]string{"--json", "--markdown", payloadPath})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for conflicting formats")
		}
	})

	t.Run("raw without json is a configuration error", func(t *testing.T) {
		payloadPath := writeTestPayload(t)

		cmd := NewRenderCmd()
		cmd.SetArgs([]string{"--raw", payloadPath})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for raw without json")
		}
	})
}

// TestRenderPayloadRecurrence tests history-backed trend enrichment.
func TestRenderPayloadRecurrence(t *testing.T) {
	t.Parallel()

	payloadPath := writeTestPayload(t)
	historyDir := t.TempDir()

	// First render saves the run; the payload carries no risk history yet.
	outputPath := filepath.Join(t.TempDir(), "first.txt")
	cmd := NewRenderCmd()
	cmd.SetArgs([]string{"--save", "--history-dir", historyDir, "-o", outputPath, payloadPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second render sees the stored run: the same exporter and port recur,
	// so the cognitive section now carries trend and recurrence data.
	cfg := config.NewConfig()
	cfg.HistoryDir = historyDir
	cfg.SaveHistory = true
	cfg.Inputs = []string{payloadPath}

	store, err := history.Open(historyDir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	payload, m, err := renderPayload(context.Background(), cfg, store, payloadPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.RiskHistory == nil {
		t.Fatal("expected risk history enrichment from the store")
	}
	if len(payload.RiskHistory.RecurringExporters) == 0 {
		t.Error("expected recurring exporter to be detected")
	}
	if len(m.Cognitive.Trend) == 0 {
		t.Error("expected trend rows in the cognitive section")
	}
}
