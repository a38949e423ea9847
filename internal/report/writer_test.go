package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tradelens/tradelens/internal/model"
)

// createTestModel creates a render model with sample data for testing.
func createTestModel() *model.RenderModel {
	return &model.RenderModel{
		ActiveSection: "overview",
		Overview: model.OverviewSection{
			Visible:       true,
			FileCount:     2,
			Files:         []string{"invoice.pdf", "packing_list.pdf"},
			Score:         "72.0",
			RiskLabel:     model.BucketModerateRisk,
			RingClass:     model.RingAmber,
			Summary:       "Overall trade confidence is Medium (72%).",
			MismatchCount: 1,
			AlertCount:    2,
		},
		Upload: model.UploadSection{
			Visible: true,
			Documents: []model.DocumentRow{
				{
					Filename: "invoice.pdf",
					Summary:  "Invoice INV-001 from Acme Ltd",
					Invoice:  "INV-001",
					Date:     "2026-08-20",
					Amount:   "USD 9,500.00",
					Exporter: "Acme Ltd",
					Route:    "Mumbai -> Rotterdam",
				},
			},
		},
		Cognitive: model.CognitiveSection{
			Visible:   true,
			HasScore:  true,
			Score:     "72.0",
			RiskLabel: model.BucketModerateRisk,
			RingClass: model.RingAmber,
			Summary:   "Overall trade confidence is Medium (72%).",
			Breakdown: []model.BreakdownRow{
				{Component: "HS Code", Risk: "Low", Score: "95.0"},
				{Component: "Mismatches", Risk: "Medium", Score: "68.0"},
			},
			Trend: []model.TrendRow{
				{Timestamp: "2026-08-20 10:15:00", Score: "88.0", Tier: "Medium", MismatchCount: 1, Exporters: "Acme Ltd"},
			},
		},
		Sanctions: model.SanctionsSection{
			Visible:   true,
			Present:   true,
			Summary:   "1 potential sanction-related entities detected.",
			RiskLevel: "High",
			Hits: []model.SanctionRow{
				{Entity: "NOVOROSSIYSK", Type: "Port", Reason: "Restricted port", Document: "invoice.pdf"},
			},
		},
		Comparison: model.ComparisonSection{
			Visible: true,
			Header:  []string{"Field", "invoice.pdf", "packing_list.pdf", "Status"},
			Rows: []model.ComparisonCells{
				{Status: model.StatusMatch, Cells: []string{"Invoice No", "INV-001", "INV-001", "Match"}},
				{Status: model.StatusMismatch, Cells: []string{"Exporter", "Acme Ltd", "Acme Limited", "Mismatch"}},
			},
			Mismatches: []model.MismatchRow{
				{Field: "Exporter", Values: "Acme Ltd | Acme Limited", Issue: "Exporter mismatch.", Suggestion: "Confirm the legal entity.", Severity: "Medium"},
			},
			Pairwise: []model.PairwiseDisplay{
				{Field: "Exporter", Pair: "invoice.pdf vs packing_list.pdf", Values: "Acme Ltd | Acme Limited", Status: "Mismatch", Issue: "Names differ.", Severity: "Medium"},
			},
		},
		Analysis: model.AnalysisSection{
			Visible: true,
			HS: &model.AnalysisBlock{
				Title: "HS Code Intelligence", Summary: "All documents share the same HS Code: 854411",
				RiskLevel: "Low", Details: []string{"invoice.pdf: 854411"},
			},
			Patterns: []model.AlertRow{
				{Kind: "Exporter Name Variation", Document: "-", Message: "Exporter names vary slightly.", Severity: "Medium", Values: "Acme Ltd, Acme Limited"},
			},
			Heatmap: []model.HeatRow{
				{Exporter: "Acme Ltd", Port: "Rotterdam", Risk: "85.0", Class: model.HeatHigh, Color: model.HeatColorHigh, LastSeen: "2026-08-23"},
			},
		},
	}
}

// TestTextWriter tests the human-readable writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and overview", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)

		if _, err := w.Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "TRADELENS ANALYSIS REPORT") {
			t.Error("expected output to contain the banner")
		}
		if !strings.Contains(output, "Cognitive Score: 72.0") {
			t.Error("expected output to contain the score")
		}
		if !strings.Contains(output, model.BucketModerateRisk) {
			t.Error("expected output to contain the risk label")
		}
	})

	t.Run("writes comparison table with aligned columns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)

		if _, err := w.Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "DOCUMENT COMPARISON") {
			t.Error("expected comparison section")
		}
		if !strings.Contains(output, "Acme Limited") {
			t.Error("expected mismatched value in table")
		}
		if !strings.Contains(output, "[Medium] Exporter: Acme Ltd | Acme Limited") {
			t.Error("expected mismatch row with pipe-joined values")
		}
	})

	t.Run("skips hidden sections", func(t *testing.T) {
		t.Parallel()

		m := createTestModel()
		m.ActiveSection = "comparison"
		m.Overview.Visible = false
		m.Upload.Visible = false
		m.Cognitive.Visible = false
		m.Sanctions.Visible = false
		m.Analysis.Visible = false

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "SANCTIONS SCREENING") {
			t.Error("hidden section should not be written")
		}
		if !strings.Contains(output, "DOCUMENT COMPARISON") {
			t.Error("active section should be written")
		}
	})

	t.Run("pairwise rows only in verbose mode", func(t *testing.T) {
		t.Parallel()

		var quiet, verbose bytes.Buffer
		if _, err := NewTextWriter(&quiet).Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewTextWriter(&verbose, WithVerbose(true)).Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(quiet.String(), "Pairwise:") {
			t.Error("pairwise rows should be hidden by default")
		}
		if !strings.Contains(verbose.String(), "Pairwise:") {
			t.Error("pairwise rows should appear in verbose mode")
		}
	})

	t.Run("writes placeholders for empty sections", func(t *testing.T) {
		t.Parallel()

		m := &model.RenderModel{
			ActiveSection: "overview",
			Overview:      model.OverviewSection{Visible: true, Score: "-", RiskLabel: "-", RingClass: "-", Summary: "No summary available."},
			Upload:        model.UploadSection{Visible: true, Placeholder: "No documents processed."},
			Comparison:    model.ComparisonSection{Visible: true, Placeholder: "No comparison data available.", MismatchPlaceholder: "No mismatches detected."},
		}

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No documents processed.") {
			t.Error("expected upload placeholder")
		}
		if !strings.Contains(output, "No mismatches detected.") {
			t.Error("expected mismatch placeholder")
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid compact JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		n, err := w.Write(createTestModel())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		var decoded model.RenderModel
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Overview.Score != "72.0" {
			t.Errorf("got score %q", decoded.Overview.Score)
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})

	t.Run("raw mode re-emits the analysis payload", func(t *testing.T) {
		t.Parallel()

		score := 72.0
		payload := &model.AnalysisReport{
			FilesProcessed: []string{"invoice.pdf"},
			CognitiveScore: &score,
		}

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRaw(payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.AnalysisReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.CognitiveScore == nil || *decoded.CognitiveScore != 72 {
			t.Error("raw output should carry the unprojected score")
		}
		if strings.Contains(buf.String(), "active_section") {
			t.Error("raw output must not contain render model fields")
		}
	})

	t.Run("full writer wraps with version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "1.2.3")

		if _, err := w.Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var export JSONExport
		if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if export.Version != "1.2.3" {
			t.Errorf("got version %q", export.Version)
		}
		if export.Model == nil || export.Model.Overview.FileCount != 2 {
			t.Error("expected wrapped model")
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes headings and tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# TradeLens Analysis Report") {
			t.Error("expected H1 title")
		}
		if !strings.Contains(output, "## Document Comparison") {
			t.Error("expected comparison heading")
		}
		if !strings.Contains(output, "| Exporter | Acme Ltd | Acme Limited | Mismatch |") {
			t.Error("expected comparison table row")
		}
	})

	t.Run("writes mermaid severity chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "```mermaid") {
			t.Error("expected mermaid code block")
		}
		if !strings.Contains(output, "Mismatch Severity Distribution") {
			t.Error("expected chart title")
		}
	})

	t.Run("writes caution alert for sanction hits", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestModel()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Error("expected caution alert for sanction hits")
		}
	})
}

// TestPDFWriter tests the PDF writer.
func TestPDFWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a valid PDF document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewPDFWriter(&buf)

		n, err := w.Write(createTestModel())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Fatal("expected bytes to be written")
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
			t.Error("output does not start with a PDF header")
		}
	})

	t.Run("handles an empty model", func(t *testing.T) {
		t.Parallel()

		m := &model.RenderModel{
			ActiveSection: "overview",
			Overview:      model.OverviewSection{Visible: true, Score: "-", Summary: "No summary available."},
			Upload:        model.UploadSection{Visible: true, Placeholder: "No documents processed."},
		}

		var buf bytes.Buffer
		if _, err := NewPDFWriter(&buf).Write(m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
			t.Error("output does not start with a PDF header")
		}
	})
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewTextWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestModel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

// TestTruncateString tests the table cell truncation helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 2, "ab"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tc.input, tc.maxLen); got != tc.expected {
				t.Errorf("truncateString(%q, %d) = %q, expected %q", tc.input, tc.maxLen, got, tc.expected)
			}
		})
	}
}
