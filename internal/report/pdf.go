package report

import (
	"fmt"
	"io"

	gofpdf "github.com/go-pdf/fpdf"
	"github.com/tradelens/tradelens/internal/model"
)

// riskColors maps qualitative risk levels to RGB colors used in PDF tables.
var riskColors = map[string][]int{
	model.RiskHigh.String():   {239, 68, 68},
	model.RiskMedium.String(): {245, 158, 11},
	model.RiskLow.String():    {34, 197, 94},
}

// PDFWriter outputs render models as PDF documents.
// This format is designed for compliance archives and sharing outside
// the terminal.
//
// Design decision: The PDF lays out one page per visible section rather
// than flowing sections together. Compliance reviewers file individual
// pages, and a page break per section keeps tables from splitting.
type PDFWriter struct {
	baseWriter
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer) *PDFWriter {
	return &PDFWriter{
		baseWriter: newBaseWriter(output),
	}
}

// countingWriter tracks bytes written so Write can satisfy the Writer
// interface; fpdf's Output reports only an error.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// Write outputs the render model as a PDF document. Sections hidden by the
// model's active-section selector are skipped.
func (w *PDFWriter) Write(m *model.RenderModel) (int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	w.addTitlePage(pdf, m)

	if m.Upload.Visible {
		w.addUpload(pdf, m.Upload)
	}
	if m.Cognitive.Visible {
		w.addCognitive(pdf, m.Cognitive)
	}
	if m.Sanctions.Visible {
		w.addSanctions(pdf, m.Sanctions)
	}
	if m.Comparison.Visible {
		w.addComparison(pdf, m.Comparison)
	}
	if m.Analysis.Visible {
		w.addAnalysis(pdf, m.Analysis)
	}

	counter := &countingWriter{w: w.output}
	if err := pdf.Output(counter); err != nil {
		return counter.n, fmt.Errorf("write pdf: %w", err)
	}
	return counter.n, nil
}

// addSectionHeader renders a section title with an underline.
func (w *PDFWriter) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(30, 41, 59)
	x, y := pdf.GetXY()
	pageW, _ := pdf.GetPageSize()
	pdf.Line(x, y, pageW-15, y)
	pdf.Ln(5)
}

// setRiskColor sets the text color for a qualitative risk level.
func (w *PDFWriter) setRiskColor(pdf *gofpdf.Fpdf, level string) {
	color := riskColors[level]
	if color == nil {
		color = []int{60, 60, 60}
	}
	pdf.SetTextColor(color[0], color[1], color[2])
}

// addTitlePage renders the cover page with the overview numbers.
func (w *PDFWriter) addTitlePage(pdf *gofpdf.Fpdf, m *model.RenderModel) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 14, "TradeLens Analysis Report", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	o := m.Overview
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 6, o.Summary, "", "L", false)
	pdf.Ln(6)

	rows := [][2]string{
		{"Files Processed", fmt.Sprintf("%d", o.FileCount)},
		{"Cognitive Score", o.Score},
		{"Risk", o.RiskLabel},
		{"Mismatches", fmt.Sprintf("%d", o.MismatchCount)},
		{"Alerts", fmt.Sprintf("%d", o.AlertCount)},
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(60, 8, "Property", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Value", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	for _, row := range rows {
		pdf.CellFormat(60, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "1", 1, "L", false, 0, "")
	}
}

// addUpload renders the processed documents table.
func (w *PDFWriter) addUpload(pdf *gofpdf.Fpdf, u model.UploadSection) {
	pdf.AddPage()
	w.addSectionHeader(pdf, "Documents")

	if u.Placeholder != "" {
		w.addPlaceholder(pdf, u.Placeholder)
		return
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(45, 8, "File", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Invoice", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Route", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, doc := range u.Documents {
		if i%2 == 0 {
			pdf.SetFillColor(245, 247, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(45, 7, truncateString(doc.Filename, 28), "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, doc.Invoice, "1", 0, "L", true, 0, "")
		pdf.CellFormat(22, 7, doc.Date, "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, doc.Amount, "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, truncateString(doc.Route, 40), "1", 1, "L", true, 0, "")
	}
}

// addCognitive renders the score, breakdown table, and trend lines.
func (w *PDFWriter) addCognitive(pdf *gofpdf.Fpdf, c model.CognitiveSection) {
	pdf.AddPage()
	w.addSectionHeader(pdf, "Cognitive Risk")

	if c.Placeholder != "" {
		w.addPlaceholder(pdf, c.Placeholder)
		return
	}

	pdf.SetFont("Helvetica", "B", 12)
	w.setRiskColorForBucket(pdf, c.RiskLabel)
	pdf.CellFormat(0, 8, fmt.Sprintf("Score %s - %s", c.Score, c.RiskLabel), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 5, c.Summary, "", "L", false)
	pdf.Ln(4)

	if len(c.Breakdown) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(30, 41, 59)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(60, 8, "Component", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 8, "Risk", "1", 0, "C", true, 0, "")
		pdf.CellFormat(0, 8, "Score", "1", 1, "C", true, 0, "")

		for _, row := range c.Breakdown {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(60, 60, 60)
			pdf.CellFormat(60, 7, row.Component, "1", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "B", 9)
			w.setRiskColor(pdf, row.Risk)
			pdf.CellFormat(30, 7, row.Risk, "1", 0, "C", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(60, 60, 60)
			pdf.CellFormat(0, 7, row.Score, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(c.Trend) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(0, 8, "Trend", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(60, 60, 60)
		for _, row := range c.Trend {
			line := fmt.Sprintf("%s  score %s  %s  (%d mismatches)",
				row.Timestamp, row.Score, row.Tier, row.MismatchCount)
			pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		}
	}

	if c.Note != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.MultiCell(0, 5, c.Note, "", "L", false)
	}
}

// setRiskColorForBucket sets the text color for a cognitive bucket label.
func (w *PDFWriter) setRiskColorForBucket(pdf *gofpdf.Fpdf, label string) {
	switch label {
	case model.BucketHighRisk:
		pdf.SetTextColor(239, 68, 68)
	case model.BucketModerateRisk:
		pdf.SetTextColor(245, 158, 11)
	case model.BucketLowRisk:
		pdf.SetTextColor(34, 197, 94)
	default:
		pdf.SetTextColor(60, 60, 60)
	}
}

// addSanctions renders the sanction hits table.
func (w *PDFWriter) addSanctions(pdf *gofpdf.Fpdf, s model.SanctionsSection) {
	pdf.AddPage()
	w.addSectionHeader(pdf, "Sanctions Screening")

	if s.Placeholder != "" {
		w.addPlaceholder(pdf, s.Placeholder)
		return
	}

	pdf.SetFont("Helvetica", "B", 11)
	w.setRiskColor(pdf, s.RiskLevel)
	pdf.CellFormat(0, 8, fmt.Sprintf("Risk Level: %s", s.RiskLevel), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 5, s.Summary, "", "L", false)
	pdf.Ln(4)

	if len(s.Hits) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(239, 68, 68)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(45, 8, "Entity", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(70, 8, "Reason", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Document", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for _, hit := range s.Hits {
		pdf.CellFormat(45, 7, truncateString(hit.Entity, 26), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, hit.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 7, truncateString(hit.Reason, 44), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, truncateString(hit.Document, 24), "1", 1, "L", false, 0, "")
	}
}

// addComparison renders the side-by-side table and the mismatch table.
func (w *PDFWriter) addComparison(pdf *gofpdf.Fpdf, c model.ComparisonSection) {
	pdf.AddPage()
	w.addSectionHeader(pdf, "Document Comparison")

	if c.Placeholder != "" {
		w.addPlaceholder(pdf, c.Placeholder)
	} else {
		pageW, _ := pdf.GetPageSize()
		cellW := (pageW - 30) / float64(len(c.Header))

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(30, 41, 59)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range c.Header {
			pdf.CellFormat(cellW, 8, truncateString(h, 24), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		for _, row := range c.Rows {
			for i, cell := range row.Cells {
				if i == len(row.Cells)-1 && row.Status == model.StatusMismatch {
					pdf.SetTextColor(239, 68, 68)
				} else if i == len(row.Cells)-1 && row.Status == model.StatusMissing {
					pdf.SetTextColor(245, 158, 11)
				} else {
					pdf.SetTextColor(60, 60, 60)
				}
				pdf.CellFormat(cellW, 7, truncateString(cell, 24), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 8, "Mismatches", "", 1, "L", false, 0, "")

	if c.MismatchPlaceholder != "" {
		w.addPlaceholder(pdf, c.MismatchPlaceholder)
		return
	}

	for _, mm := range c.Mismatches {
		pdf.SetFont("Helvetica", "B", 9)
		w.setRiskColor(pdf, mm.Severity)
		pdf.CellFormat(0, 6, fmt.Sprintf("[%s] %s: %s", mm.Severity, mm.Field, mm.Values), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 5, fmt.Sprintf("Issue: %s", mm.Issue), "", "L", false)
		pdf.MultiCell(0, 5, fmt.Sprintf("Suggestion: %s", mm.Suggestion), "", "L", false)
		pdf.Ln(2)
	}
}

// addAnalysis renders the HS, Incoterm, alert, and heatmap blocks.
func (w *PDFWriter) addAnalysis(pdf *gofpdf.Fpdf, a model.AnalysisSection) {
	pdf.AddPage()
	w.addSectionHeader(pdf, "Trade Analysis")

	if a.Placeholder != "" {
		w.addPlaceholder(pdf, a.Placeholder)
		return
	}

	for _, block := range []*model.AnalysisBlock{a.HS, a.Incoterm} {
		if block == nil {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(0, 8, block.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		w.setRiskColor(pdf, block.RiskLevel)
		pdf.CellFormat(0, 6, fmt.Sprintf("Risk: %s", block.RiskLevel), "", 1, "L", false, 0, "")
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 5, block.Summary, "", "L", false)
		for _, d := range block.Details {
			pdf.CellFormat(0, 5, "- "+d, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	w.addAlertRows(pdf, "Pattern Alerts", a.Patterns)
	w.addAlertRows(pdf, "Fraud Findings", a.Fraud)

	if len(a.Heatmap) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(0, 8, "Risk Heatmap", "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(30, 41, 59)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(55, 8, "Exporter", "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 8, "Port", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 8, "Avg Risk", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, "Level", "1", 0, "C", true, 0, "")
		pdf.CellFormat(0, 8, "Last Seen", "1", 1, "L", true, 0, "")

		for _, row := range a.Heatmap {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(60, 60, 60)
			pdf.CellFormat(55, 7, truncateString(row.Exporter, 32), "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 7, truncateString(row.Port, 26), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 7, row.Risk, "1", 0, "C", false, 0, "")
			pdf.SetFont("Helvetica", "B", 9)
			w.setHeatColor(pdf, row.Class)
			pdf.CellFormat(25, 7, row.Class, "1", 0, "C", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(60, 60, 60)
			pdf.CellFormat(0, 7, row.LastSeen, "1", 1, "L", false, 0, "")
		}
	}
}

// setHeatColor sets the text color for a heatmap class.
func (w *PDFWriter) setHeatColor(pdf *gofpdf.Fpdf, class string) {
	switch class {
	case model.HeatHigh:
		pdf.SetTextColor(239, 68, 68)
	case model.HeatMedium:
		pdf.SetTextColor(245, 158, 11)
	default:
		pdf.SetTextColor(34, 197, 94)
	}
}

// addAlertRows renders a titled list of alert rows.
func (w *PDFWriter) addAlertRows(pdf *gofpdf.Fpdf, title string, rows []model.AlertRow) {
	if len(rows) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 9)
		w.setRiskColor(pdf, row.Severity)
		pdf.CellFormat(0, 6, fmt.Sprintf("[%s] %s", row.Severity, row.Kind), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 5, row.Message, "", "L", false)
	}
	pdf.Ln(3)
}

// addPlaceholder renders a muted no-data message.
func (w *PDFWriter) addPlaceholder(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
}
