package projector

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/tradelens/tradelens/internal/model"
)

// ErrNilReport is returned when Project is called without a payload.
// This is the projector's only fatal precondition: callers must not invoke
// it before the upload collaborator has produced a report.
var ErrNilReport = errors.New("analysis report is nil")

// Option configures a projection.
type Option func(*projector)

// WithSection sets the active section selector. The default is
// SectionOverview, which shows every section.
func WithSection(s model.Section) Option {
	return func(p *projector) {
		p.section = s
	}
}

// WithLocation sets the time zone used to render timestamps. The default
// is the viewer's local zone; tests pin it to a fixed zone.
func WithLocation(loc *time.Location) Option {
	return func(p *projector) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// projector carries per-projection settings. A fresh instance is built for
// every Project call, so projections never share state.
type projector struct {
	section model.Section
	loc     *time.Location
}

// Project maps a backend AnalysisReport to a display-ready RenderModel.
//
// Missing or malformed optional data never fails the projection: absent
// sub-reports become placeholder sections and absent values become "-".
// Only a nil report is an error.
func Project(report *model.AnalysisReport, opts ...Option) (*model.RenderModel, error) {
	if report == nil {
		return nil, ErrNilReport
	}

	p := &projector{
		section: model.SectionOverview,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}

	m := &model.RenderModel{
		ActiveSection: p.section.String(),
		Overview:      p.buildOverview(report),
		Upload:        p.buildUpload(report),
		Cognitive:     p.buildCognitive(report),
		Sanctions:     p.buildSanctions(report),
		Comparison:    p.buildComparison(report),
		Analysis:      p.buildAnalysis(report),
	}
	return m, nil
}

// buildOverview summarizes the report for the landing section.
func (p *projector) buildOverview(report *model.AnalysisReport) model.OverviewSection {
	section := model.OverviewSection{
		Visible:       p.section.Shows(model.SectionOverview),
		FileCount:     len(report.FilesProcessed),
		MismatchCount: len(report.MismatchReport),
		AlertCount:    len(report.PatternAlerts) + len(report.FraudReport),
		Score:         Placeholder,
		RiskLabel:     Placeholder,
		RingClass:     Placeholder,
		Summary:       NoSummary,
	}
	if len(report.FilesProcessed) > 0 {
		section.Files = append([]string(nil), report.FilesProcessed...)
	}
	if report.CognitiveScore != nil {
		section.Score = formatPercent(*report.CognitiveScore)
		section.RiskLabel, section.RingClass = model.CognitiveBucket(*report.CognitiveScore)
	}
	if report.CognitiveSummary != "" {
		section.Summary = report.CognitiveSummary
	}
	return section
}

// buildUpload lists the processed documents with their key fields.
func (p *projector) buildUpload(report *model.AnalysisReport) model.UploadSection {
	section := model.UploadSection{
		Visible: p.section.Shows(model.SectionUpload),
	}
	if len(report.ExtractedData) == 0 {
		section.Placeholder = NoDocuments
		return section
	}
	for _, doc := range report.ExtractedData {
		section.Documents = append(section.Documents, model.DocumentRow{
			Filename:  orPlaceholder(doc.Filename),
			Summary:   orPlaceholder(doc.Summary),
			Invoice:   orPlaceholder(doc.InvoiceNo),
			Date:      orPlaceholder(doc.Date),
			Amount:    formatAmount(doc.Amount, doc.Currency),
			Exporter:  orPlaceholder(doc.Exporter),
			Consignee: orPlaceholder(doc.Consignee),
			Route:     orPlaceholder(doc.PortLoading) + " -> " + orPlaceholder(doc.PortDest),
			ItemCount: len(doc.Items),
		})
	}
	return section
}

// formatAmount renders an amount with its currency when both are present.
func formatAmount(amount, currency string) string {
	a := orPlaceholder(amount)
	if a == Placeholder {
		return a
	}
	if c := strings.TrimSpace(currency); c != "" {
		return c + " " + a
	}
	return a
}

// buildCognitive renders the score ring, breakdown, and trend.
func (p *projector) buildCognitive(report *model.AnalysisReport) model.CognitiveSection {
	section := model.CognitiveSection{
		Visible:   p.section.Shows(model.SectionCognitive),
		Score:     Placeholder,
		RiskLabel: Placeholder,
		RingClass: Placeholder,
		Summary:   NoSummary,
	}

	if report.CognitiveScore != nil {
		section.HasScore = true
		section.Score = formatPercent(*report.CognitiveScore)
		section.RiskLabel, section.RingClass = model.CognitiveBucket(*report.CognitiveScore)
	}
	if report.CognitiveSummary != "" {
		section.Summary = report.CognitiveSummary
	}

	// Sort breakdown components by name: map iteration order would make
	// repeated projections of the same payload differ.
	if len(report.CognitiveBreakdown) > 0 {
		names := make([]string, 0, len(report.CognitiveBreakdown))
		for name := range report.CognitiveBreakdown {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entry := report.CognitiveBreakdown[name]
			section.Breakdown = append(section.Breakdown, model.BreakdownRow{
				Component: name,
				Risk:      model.ParseRiskLevel(entry.Risk).String(),
				Score:     formatPercent(entry.Score),
			})
		}
	}

	if report.RiskHistory != nil {
		section.Note = report.RiskHistory.Note
		for _, point := range report.RiskHistory.TrendData {
			section.Trend = append(section.Trend, model.TrendRow{
				Timestamp:     formatLocalDateTime(point.Timestamp, p.loc),
				Score:         formatPercent(point.CognitiveScore),
				Tier:          model.ParseRiskLevel(point.RiskTier).String(),
				MismatchCount: point.MismatchCount,
				Exporters:     joinStrings(point.Exporters, ", "),
				Ports:         joinStrings(point.Ports, ", "),
			})
		}
	}

	if !section.HasScore && len(section.Breakdown) == 0 && len(section.Trend) == 0 {
		section.Placeholder = NoCognitive
	}
	return section
}

// buildSanctions renders the sanction screening results.
func (p *projector) buildSanctions(report *model.AnalysisReport) model.SanctionsSection {
	section := model.SanctionsSection{
		Visible: p.section.Shows(model.SectionSanctions),
	}
	analysis := report.SanctionAnalysis
	if analysis == nil {
		section.Placeholder = NoSanctionData
		return section
	}
	section.Present = true
	section.Summary = orPlaceholder(analysis.Summary)
	section.RiskLevel = model.ParseRiskLevel(analysis.RiskLevel).String()
	for _, d := range analysis.Details {
		section.Hits = append(section.Hits, model.SanctionRow{
			Entity:   orPlaceholder(d.Entity),
			Type:     orPlaceholder(d.Type),
			Reason:   orPlaceholder(d.Reason),
			Document: orPlaceholder(d.Document),
		})
	}
	return section
}

// buildComparison renders the side-by-side table, the mismatch report, and
// the pairwise rows.
func (p *projector) buildComparison(report *model.AnalysisReport) model.ComparisonSection {
	section := model.ComparisonSection{
		Visible: p.section.Shows(model.SectionComparison),
	}

	fileCount := len(report.FilesProcessed)
	if len(report.ComparisonReport) == 0 {
		section.Placeholder = NoComparison
	} else {
		section.Header = make([]string, 0, fileCount+2)
		section.Header = append(section.Header, "Field")
		for _, f := range report.FilesProcessed {
			section.Header = append(section.Header, orPlaceholder(f))
		}
		section.Header = append(section.Header, "Status")

		for _, row := range report.ComparisonReport {
			section.Rows = append(section.Rows, projectComparisonRow(row, fileCount))
		}
	}

	if len(report.MismatchReport) == 0 {
		section.MismatchPlaceholder = NoMismatches
	} else {
		for _, mm := range report.MismatchReport {
			values := joinAnyCells(mm.Values, " | ")
			if values == "" {
				values = Placeholder
			}
			section.Mismatches = append(section.Mismatches, model.MismatchRow{
				Field:      fieldLabel(mm.Field),
				Values:     values,
				Issue:      orPlaceholder(mm.Summary()),
				Suggestion: orPlaceholder(mm.Suggestion),
				Severity:   model.ParseRiskLevel(mm.Severity).String(),
			})
		}
	}

	// Pairwise rows: matches carry no information the main table lacks,
	// so only mismatched and missing pairs are kept.
	for _, pair := range report.PairwiseComparison {
		if pair.Status == model.StatusMatch {
			continue
		}
		display := model.PairwiseDisplay{
			Field:    fieldLabel(pair.Field),
			Pair:     orPlaceholder(pair.Doc1) + " vs " + orPlaceholder(pair.Doc2),
			Values:   formatValue(pair.Value1) + " | " + formatValue(pair.Value2),
			Status:   orPlaceholder(pair.Status),
			Issue:    Placeholder,
			Severity: model.RiskLow.String(),
		}
		if pair.Explanation != nil {
			display.Issue = orPlaceholder(pair.Explanation.IssueSummary)
			display.Severity = model.ParseRiskLevel(pair.Explanation.Severity).String()
		}
		section.Pairwise = append(section.Pairwise, display)
	}

	return section
}

// projectComparisonRow formats one table row to exactly fileCount+2 cells:
// the field label, one value per processed file, and the status. Shorter
// value arrays are padded with placeholders, longer ones truncated.
func projectComparisonRow(row model.ComparisonRow, fileCount int) model.ComparisonCells {
	cells := make([]string, 0, fileCount+2)
	cells = append(cells, fieldLabel(row.Field))
	for i := 0; i < fileCount; i++ {
		if i < len(row.Values) {
			cells = append(cells, formatValue(row.Values[i]))
		} else {
			cells = append(cells, Placeholder)
		}
	}
	status := orPlaceholder(row.Status)
	cells = append(cells, status)
	return model.ComparisonCells{Status: status, Cells: cells}
}

// buildAnalysis renders HS-code, Incoterm, pattern, fraud, and heatmap data.
func (p *projector) buildAnalysis(report *model.AnalysisReport) model.AnalysisSection {
	section := model.AnalysisSection{
		Visible: p.section.Shows(model.SectionAnalysis),
	}

	if report.HSAnalysis != nil {
		section.HS = projectAnalysisBlock("HS Code Intelligence", report.HSAnalysis, hsDetailLine)
	}
	if report.IncotermAnalysis != nil {
		section.Incoterm = projectAnalysisBlock("Incoterm Detection", report.IncotermAnalysis, incotermDetailLine)
	}

	for _, alert := range report.PatternAlerts {
		section.Patterns = append(section.Patterns, model.AlertRow{
			Kind:     orPlaceholder(alert.Type),
			Document: orPlaceholder(alert.Doc),
			Message:  orPlaceholder(alert.Message),
			Severity: model.ParseRiskLevel(alert.Severity).String(),
			Values:   joinAny(alert.Values, ", "),
		})
	}
	for _, finding := range report.FraudReport {
		section.Fraud = append(section.Fraud, model.AlertRow{
			Kind:     orPlaceholder(finding.Rule),
			Document: orPlaceholder(finding.Doc),
			Message:  orPlaceholder(finding.Explanation),
			Severity: model.ParseRiskLevel(finding.Severity).String(),
		})
	}

	// Riskiest pairs first. The sort is stable so equal-risk cells keep
	// the backend's order.
	cells := append([]model.HeatmapCell(nil), report.HeatmapData...)
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].AvgRisk > cells[j].AvgRisk
	})
	for _, cell := range cells {
		class, color := model.HeatBucket(cell.AvgRisk)
		section.Heatmap = append(section.Heatmap, model.HeatRow{
			Exporter: orPlaceholder(cell.Exporter),
			Port:     orPlaceholder(cell.Port),
			Risk:     formatPercent(cell.AvgRisk),
			Class:    class,
			Color:    color,
			LastSeen: formatLocalDate(cell.LastSeen, p.loc),
		})
	}

	if section.HS == nil && section.Incoterm == nil &&
		len(section.Patterns) == 0 && len(section.Fraud) == 0 && len(section.Heatmap) == 0 {
		section.Placeholder = NoAnalysisData
	}
	return section
}

// projectAnalysisBlock renders a RiskAnalysis with a per-kind detail line
// formatter. Detail rows that format to nothing are suppressed.
func projectAnalysisBlock(title string, a *model.RiskAnalysis, line func(model.AnalysisDetail) string) *model.AnalysisBlock {
	block := &model.AnalysisBlock{
		Title:     title,
		Summary:   orPlaceholder(a.Summary),
		RiskLevel: model.ParseRiskLevel(a.RiskLevel).String(),
	}
	for _, d := range a.Details {
		if s := line(d); s != "" {
			block.Details = append(block.Details, s)
		}
	}
	return block
}

// hsDetailLine formats an HS-code detail row as "document: code".
func hsDetailLine(d model.AnalysisDetail) string {
	if d.HS == "" {
		return ""
	}
	return orPlaceholder(d.Doc) + ": " + d.HS
}

// incotermDetailLine formats an Incoterm detail row as "document: term".
func incotermDetailLine(d model.AnalysisDetail) string {
	if d.Term == "" {
		return ""
	}
	return orPlaceholder(d.Document) + ": " + d.Term
}
