package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tradelens/tradelens/internal/model"
)

// TextWriter outputs human-readable text renderings of the dashboard.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// verbose enables additional detail in the output, such as pairwise
	// comparison rows and per-document line item counts.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the render model in human-readable format. Sections hidden
// by the model's active-section selector are skipped.
func (w *TextWriter) Write(m *model.RenderModel) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, m)

	if m.Overview.Visible {
		w.writeOverview(&sb, m.Overview)
	}
	if m.Upload.Visible {
		w.writeUpload(&sb, m.Upload)
	}
	if m.Cognitive.Visible {
		w.writeCognitive(&sb, m.Cognitive)
	}
	if m.Sanctions.Visible {
		w.writeSanctions(&sb, m.Sanctions)
	}
	if m.Comparison.Visible {
		w.writeComparison(&sb, m.Comparison)
	}
	if m.Analysis.Visible {
		w.writeAnalysis(&sb, m.Analysis)
	}

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report banner.
func (w *TextWriter) writeHeader(sb *strings.Builder, m *model.RenderModel) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      TRADELENS ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Section: %s\n\n", m.ActiveSection))
}

// writeSectionRule writes a titled horizontal rule.
func (w *TextWriter) writeSectionRule(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeOverview writes the summary counts and the risk ring.
func (w *TextWriter) writeOverview(sb *strings.Builder, o model.OverviewSection) {
	w.writeSectionRule(sb, "OVERVIEW")

	sb.WriteString(fmt.Sprintf("  Files Processed: %d\n", o.FileCount))
	for _, f := range o.Files {
		sb.WriteString(fmt.Sprintf("    [+] %s\n", f))
	}
	sb.WriteString(fmt.Sprintf("  Cognitive Score: %s\n", o.Score))
	sb.WriteString(fmt.Sprintf("  Risk:            %s (%s)\n", o.RiskLabel, o.RingClass))
	sb.WriteString(fmt.Sprintf("  Mismatches:      %d\n", o.MismatchCount))
	sb.WriteString(fmt.Sprintf("  Alerts:          %d\n", o.AlertCount))
	sb.WriteString(fmt.Sprintf("\n  %s\n\n", o.Summary))
}

// writeUpload writes one block per processed document.
func (w *TextWriter) writeUpload(sb *strings.Builder, u model.UploadSection) {
	w.writeSectionRule(sb, "DOCUMENTS")

	if u.Placeholder != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", u.Placeholder))
		return
	}

	for _, doc := range u.Documents {
		sb.WriteString(fmt.Sprintf("  * %s\n", doc.Filename))
		sb.WriteString(fmt.Sprintf("    Summary:   %s\n", doc.Summary))
		sb.WriteString(fmt.Sprintf("    Invoice:   %s\n", doc.Invoice))
		sb.WriteString(fmt.Sprintf("    Date:      %s\n", doc.Date))
		sb.WriteString(fmt.Sprintf("    Amount:    %s\n", doc.Amount))
		sb.WriteString(fmt.Sprintf("    Exporter:  %s\n", doc.Exporter))
		sb.WriteString(fmt.Sprintf("    Consignee: %s\n", doc.Consignee))
		sb.WriteString(fmt.Sprintf("    Route:     %s\n", doc.Route))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("    Items:     %d\n", doc.ItemCount))
		}
	}
	sb.WriteString("\n")
}

// writeCognitive writes the score, breakdown, and trend.
func (w *TextWriter) writeCognitive(sb *strings.Builder, c model.CognitiveSection) {
	w.writeSectionRule(sb, "COGNITIVE RISK")

	if c.Placeholder != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", c.Placeholder))
		return
	}

	sb.WriteString(fmt.Sprintf("  Score: %s\n", c.Score))
	sb.WriteString(fmt.Sprintf("  Risk:  %s (%s)\n", c.RiskLabel, c.RingClass))
	sb.WriteString(fmt.Sprintf("\n  %s\n\n", c.Summary))

	if len(c.Breakdown) > 0 {
		sb.WriteString("  Breakdown:\n")
		for _, row := range c.Breakdown {
			sb.WriteString(fmt.Sprintf("    %-20s %-8s %s\n", row.Component, row.Risk, row.Score))
		}
		sb.WriteString("\n")
	}

	if len(c.Trend) > 0 {
		sb.WriteString("  Trend:\n")
		for _, row := range c.Trend {
			sb.WriteString(fmt.Sprintf("    %s  score %s  %s  (%d mismatches)\n",
				row.Timestamp, row.Score, row.Tier, row.MismatchCount))
			if row.Exporters != "" {
				sb.WriteString(fmt.Sprintf("      Exporters: %s\n", row.Exporters))
			}
			if row.Ports != "" {
				sb.WriteString(fmt.Sprintf("      Ports:     %s\n", row.Ports))
			}
		}
		sb.WriteString("\n")
	}

	if c.Note != "" {
		sb.WriteString(fmt.Sprintf("  Note: %s\n\n", c.Note))
	}
}

// writeSanctions writes the sanction screening results.
func (w *TextWriter) writeSanctions(sb *strings.Builder, s model.SanctionsSection) {
	w.writeSectionRule(sb, "SANCTIONS SCREENING")

	if s.Placeholder != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", s.Placeholder))
		return
	}

	sb.WriteString(fmt.Sprintf("  Risk Level: %s\n", s.RiskLevel))
	sb.WriteString(fmt.Sprintf("  %s\n\n", s.Summary))

	for _, hit := range s.Hits {
		sb.WriteString(fmt.Sprintf("  * %s (%s)\n", hit.Entity, hit.Type))
		sb.WriteString(fmt.Sprintf("    Reason:   %s\n", hit.Reason))
		sb.WriteString(fmt.Sprintf("    Document: %s\n", hit.Document))
	}
	if len(s.Hits) > 0 {
		sb.WriteString("\n")
	}
}

// writeComparison writes the side-by-side table and the mismatch report.
func (w *TextWriter) writeComparison(sb *strings.Builder, c model.ComparisonSection) {
	w.writeSectionRule(sb, "DOCUMENT COMPARISON")

	if c.Placeholder != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", c.Placeholder))
	} else {
		widths := columnWidths(c.Header, c.Rows)
		sb.WriteString("  " + padCells(c.Header, widths) + "\n")
		sb.WriteString("  " + ruleCells(widths) + "\n")
		for _, row := range c.Rows {
			sb.WriteString("  " + padCells(row.Cells, widths) + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  Mismatches:\n")
	if c.MismatchPlaceholder != "" {
		sb.WriteString(fmt.Sprintf("    %s\n\n", c.MismatchPlaceholder))
	} else {
		for _, mm := range c.Mismatches {
			sb.WriteString(fmt.Sprintf("    [%s] %s: %s\n", mm.Severity, mm.Field, mm.Values))
			sb.WriteString(fmt.Sprintf("      Issue:      %s\n", mm.Issue))
			sb.WriteString(fmt.Sprintf("      Suggestion: %s\n", mm.Suggestion))
		}
		sb.WriteString("\n")
	}

	if w.verbose && len(c.Pairwise) > 0 {
		sb.WriteString("  Pairwise:\n")
		for _, pw := range c.Pairwise {
			sb.WriteString(fmt.Sprintf("    [%s] %s (%s): %s\n", pw.Severity, pw.Field, pw.Pair, pw.Values))
			sb.WriteString(fmt.Sprintf("      %s: %s\n", pw.Status, pw.Issue))
		}
		sb.WriteString("\n")
	}
}

// writeAnalysis writes the HS, Incoterm, alert, and heatmap blocks.
func (w *TextWriter) writeAnalysis(sb *strings.Builder, a model.AnalysisSection) {
	w.writeSectionRule(sb, "TRADE ANALYSIS")

	if a.Placeholder != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", a.Placeholder))
		return
	}

	for _, block := range []*model.AnalysisBlock{a.HS, a.Incoterm} {
		if block == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s [%s]\n", block.Title, block.RiskLevel))
		sb.WriteString(fmt.Sprintf("    %s\n", block.Summary))
		for _, d := range block.Details {
			sb.WriteString(fmt.Sprintf("    - %s\n", d))
		}
		sb.WriteString("\n")
	}

	w.writeAlertRows(sb, "Pattern Alerts", a.Patterns)
	w.writeAlertRows(sb, "Fraud Findings", a.Fraud)

	if len(a.Heatmap) > 0 {
		sb.WriteString("  Risk Heatmap:\n")
		for _, row := range a.Heatmap {
			sb.WriteString(fmt.Sprintf("    [%s] %s / %s: %s (last seen %s)\n",
				strings.ToUpper(row.Class), row.Exporter, row.Port, row.Risk, row.LastSeen))
		}
		sb.WriteString("\n")
	}
}

// writeAlertRows writes a titled list of alert rows.
func (w *TextWriter) writeAlertRows(sb *strings.Builder, title string, rows []model.AlertRow) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("  %s:\n", title))
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("    [%s] %s: %s\n", row.Severity, row.Kind, row.Message))
		if row.Values != "" {
			sb.WriteString(fmt.Sprintf("      Values: %s\n", row.Values))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by tradelens\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// columnWidths computes per-column display widths for the comparison table.
// Every row carries the same cell count as the header, so indexing is safe.
func columnWidths(header []string, rows []model.ComparisonCells) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row.Cells {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

// padCells left-aligns cells to the given widths, separated by two spaces.
func padCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := len(cell)
		if i < len(widths) {
			width = widths[i]
		}
		parts[i] = fmt.Sprintf("%-*s", width, cell)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// ruleCells builds the dashed rule under the table header.
func ruleCells(widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width)
	}
	return strings.Join(parts, "  ")
}
