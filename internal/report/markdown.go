package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/tradelens/tradelens/internal/model"
)

// MarkdownWriter outputs render models in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the render model in Markdown format. Sections hidden by the
// model's active-section selector are skipped.
func (w *MarkdownWriter) Write(m *model.RenderModel) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("TradeLens Analysis Report")
	md.PlainText("")

	if m.Overview.Visible {
		w.writeOverview(md, m.Overview)
	}
	if m.Upload.Visible {
		w.writeUpload(md, m.Upload)
	}
	if m.Cognitive.Visible {
		w.writeCognitive(md, m.Cognitive)
	}
	if m.Sanctions.Visible {
		w.writeSanctions(md, m.Sanctions)
	}
	if m.Comparison.Visible {
		w.writeComparison(md, m.Comparison)
	}
	if m.Analysis.Visible {
		w.writeAnalysis(md, m.Analysis)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeOverview writes the summary table and the risk alert.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, o model.OverviewSection) {
	md.H2("Overview")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Files Processed", strconv.Itoa(o.FileCount)},
			{"Cognitive Score", o.Score},
			{"Risk", o.RiskLabel},
			{"Mismatches", strconv.Itoa(o.MismatchCount)},
			{"Alerts", strconv.Itoa(o.AlertCount)},
		},
	})
	md.PlainText("")
	md.PlainText(o.Summary)
	md.PlainText("")

	w.writeRiskAlert(md, o)
}

// writeRiskAlert writes a GitHub-flavored alert matching the risk bucket.
func (w *MarkdownWriter) writeRiskAlert(md *markdown.Markdown, o model.OverviewSection) {
	switch o.RiskLabel {
	case model.BucketHighRisk:
		md.Cautionf(
			"High risk shipment. Score %s with %d mismatch(es) requires review before release.",
			o.Score, o.MismatchCount,
		)
	case model.BucketModerateRisk:
		md.Warningf(
			"Moderate risk shipment. Score %s; %d mismatch(es) should be resolved.",
			o.Score, o.MismatchCount,
		)
	case model.BucketLowRisk:
		md.Tip("Low risk shipment. Documents are largely consistent.")
	default:
		md.Note("No cognitive score available for this run.")
	}
	md.PlainText("")
}

// writeUpload writes the processed-documents table.
func (w *MarkdownWriter) writeUpload(md *markdown.Markdown, u model.UploadSection) {
	md.H2("Documents")
	md.PlainText("")

	if u.Placeholder != "" {
		md.PlainText(u.Placeholder)
		md.PlainText("")
		return
	}

	rows := make([][]string, len(u.Documents))
	for i, doc := range u.Documents {
		rows[i] = []string{
			"`" + doc.Filename + "`",
			doc.Invoice,
			doc.Date,
			doc.Amount,
			truncateString(doc.Exporter, 40),
			doc.Route,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Invoice", "Date", "Amount", "Exporter", "Route"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCognitive writes the score, breakdown table, and trend table.
func (w *MarkdownWriter) writeCognitive(md *markdown.Markdown, c model.CognitiveSection) {
	md.H2("Cognitive Risk")
	md.PlainText("")

	if c.Placeholder != "" {
		md.PlainText(c.Placeholder)
		md.PlainText("")
		return
	}

	md.PlainTextf("**Score:** %s (%s)", c.Score, c.RiskLabel)
	md.PlainText("")
	md.PlainText(c.Summary)
	md.PlainText("")

	if len(c.Breakdown) > 0 {
		rows := make([][]string, len(c.Breakdown))
		for i, row := range c.Breakdown {
			rows[i] = []string{row.Component, row.Risk, row.Score}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Component", "Risk", "Score"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(c.Trend) > 0 {
		rows := make([][]string, len(c.Trend))
		for i, row := range c.Trend {
			rows[i] = []string{
				row.Timestamp,
				row.Score,
				row.Tier,
				strconv.Itoa(row.MismatchCount),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Run", "Score", "Tier", "Mismatches"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if c.Note != "" {
		md.Importantf("%s", c.Note)
		md.PlainText("")
	}
}

// writeSanctions writes the sanction hits table with a caution alert when
// entities were flagged.
func (w *MarkdownWriter) writeSanctions(md *markdown.Markdown, s model.SanctionsSection) {
	md.H2("Sanctions Screening")
	md.PlainText("")

	if s.Placeholder != "" {
		md.PlainText(s.Placeholder)
		md.PlainText("")
		return
	}

	if len(s.Hits) > 0 {
		md.Cautionf("%s", s.Summary)
	} else {
		md.Tip("No sanctioned entities detected.")
	}
	md.PlainText("")

	if len(s.Hits) > 0 {
		rows := make([][]string, len(s.Hits))
		for i, hit := range s.Hits {
			rows[i] = []string{hit.Entity, hit.Type, truncateString(hit.Reason, 60), "`" + hit.Document + "`"}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Entity", "Type", "Reason", "Document"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeComparison writes the side-by-side table, the mismatch table, and a
// severity pie chart.
func (w *MarkdownWriter) writeComparison(md *markdown.Markdown, c model.ComparisonSection) {
	md.H2("Document Comparison")
	md.PlainText("")

	if c.Placeholder != "" {
		md.PlainText(c.Placeholder)
		md.PlainText("")
	} else {
		rows := make([][]string, len(c.Rows))
		for i, row := range c.Rows {
			rows[i] = row.Cells
		}
		md.Table(markdown.TableSet{
			Header: c.Header,
			Rows:   rows,
		})
		md.PlainText("")
	}

	md.PlainText("### Mismatches")
	md.PlainText("")

	if c.MismatchPlaceholder != "" {
		md.PlainText(c.MismatchPlaceholder)
		md.PlainText("")
		return
	}

	rows := make([][]string, len(c.Mismatches))
	for i, mm := range c.Mismatches {
		rows[i] = []string{
			mm.Field,
			truncateString(mm.Values, 50),
			truncateString(mm.Issue, 60),
			truncateString(mm.Suggestion, 60),
			mm.Severity,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Values", "Issue", "Suggestion", "Severity"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeMismatchChart(md, c.Mismatches)
}

// writeMismatchChart writes a mermaid pie chart of mismatch severities.
func (w *MarkdownWriter) writeMismatchChart(md *markdown.Markdown, mismatches []model.MismatchRow) {
	var low, medium, high uint64
	for _, mm := range mismatches {
		switch mm.Severity {
		case model.RiskHigh.String():
			high++
		case model.RiskMedium.String():
			medium++
		default:
			low++
		}
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Mismatch Severity Distribution"),
		piechart.WithShowData(true),
	)
	if high > 0 {
		chart.LabelAndIntValue("High", high)
	}
	if medium > 0 {
		chart.LabelAndIntValue("Medium", medium)
	}
	if low > 0 {
		chart.LabelAndIntValue("Low", low)
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAnalysis writes the HS, Incoterm, alert, and heatmap blocks.
func (w *MarkdownWriter) writeAnalysis(md *markdown.Markdown, a model.AnalysisSection) {
	md.H2("Trade Analysis")
	md.PlainText("")

	if a.Placeholder != "" {
		md.PlainText(a.Placeholder)
		md.PlainText("")
		return
	}

	for _, block := range []*model.AnalysisBlock{a.HS, a.Incoterm} {
		if block == nil {
			continue
		}
		md.PlainTextf("### %s", block.Title)
		md.PlainText("")
		md.PlainTextf("**Risk:** %s. %s", block.RiskLevel, block.Summary)
		md.PlainText("")
		if len(block.Details) > 0 {
			md.BulletList(block.Details...)
			md.PlainText("")
		}
	}

	w.writeAlertTable(md, "Pattern Alerts", a.Patterns)
	w.writeAlertTable(md, "Fraud Findings", a.Fraud)

	if len(a.Heatmap) > 0 {
		md.PlainText("### Risk Heatmap")
		md.PlainText("")
		rows := make([][]string, len(a.Heatmap))
		for i, row := range a.Heatmap {
			rows[i] = []string{row.Exporter, row.Port, row.Risk, row.Class, row.LastSeen}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Exporter", "Port", "Avg Risk", "Level", "Last Seen"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeAlertTable writes a titled alert table.
func (w *MarkdownWriter) writeAlertTable(md *markdown.Markdown, title string, rows []model.AlertRow) {
	if len(rows) == 0 {
		return
	}
	md.PlainTextf("### %s", title)
	md.PlainText("")

	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = []string{
			row.Kind,
			row.Document,
			truncateString(row.Message, 70),
			row.Severity,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Document", "Message", "Severity"},
		Rows:   table,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by tradelens*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
