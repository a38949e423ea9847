package model

import "strings"

// Section identifies one dashboard section of the render model.
type Section int

const (
	// SectionOverview is the sentinel section: when active, every section
	// is visible.
	SectionOverview Section = iota

	// SectionUpload shows the processed files and per-document summaries.
	SectionUpload

	// SectionCognitive shows the cognitive score, breakdown, and trend.
	SectionCognitive

	// SectionSanctions shows the sanction screening results.
	SectionSanctions

	// SectionComparison shows the comparison table and mismatch report.
	SectionComparison

	// SectionAnalysis shows HS-code, Incoterm, pattern, fraud, and heatmap
	// results.
	SectionAnalysis
)

// String returns the lowercase section name used by the --section flag.
func (s Section) String() string {
	switch s {
	case SectionUpload:
		return "upload"
	case SectionCognitive:
		return "cognitive"
	case SectionSanctions:
		return "sanctions"
	case SectionComparison:
		return "comparison"
	case SectionAnalysis:
		return "analysis"
	default:
		return "overview"
	}
}

// ParseSection maps a user-supplied section name to a Section. Matching is
// case-insensitive. Unknown names degrade to SectionOverview so a typo
// widens the view instead of blanking it.
func ParseSection(s string) Section {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upload":
		return SectionUpload
	case "cognitive":
		return SectionCognitive
	case "sanctions":
		return SectionSanctions
	case "comparison":
		return SectionComparison
	case "analysis":
		return SectionAnalysis
	default:
		return SectionOverview
	}
}

// Shows reports whether a render with this active section displays the
// given section. SectionOverview shows everything.
func (s Section) Shows(other Section) bool {
	return s == SectionOverview || s == other
}

// RenderModel is the normalized, display-ready projection of an
// AnalysisReport. Every value is already bucketed and formatted; writers
// lay the model out but never reinterpret thresholds or raw numbers.
type RenderModel struct {
	// ActiveSection is the section selector the model was projected with.
	ActiveSection string `json:"active_section"`

	Overview   OverviewSection   `json:"overview"`
	Upload     UploadSection     `json:"upload"`
	Cognitive  CognitiveSection  `json:"cognitive"`
	Sanctions  SanctionsSection  `json:"sanctions"`
	Comparison ComparisonSection `json:"comparison"`
	Analysis   AnalysisSection   `json:"analysis"`
}

// OverviewSection summarizes the whole report.
type OverviewSection struct {
	// Visible reports whether the active section selector shows this section.
	Visible bool `json:"visible"`

	// FileCount is the number of processed files.
	FileCount int `json:"file_count"`

	// Files lists the processed filenames in comparison order.
	Files []string `json:"files,omitempty"`

	// Score is the formatted cognitive score ("87.0") or "-".
	Score string `json:"score"`

	// RiskLabel is the cognitive bucket label, or "-" without a score.
	RiskLabel string `json:"risk_label"`

	// RingClass is the score-ring color class, or "-" without a score.
	RingClass string `json:"ring_class"`

	// Summary is the cognitive summary or a placeholder message.
	Summary string `json:"summary"`

	// MismatchCount is the number of mismatch report entries.
	MismatchCount int `json:"mismatch_count"`

	// AlertCount is the number of pattern alerts plus fraud findings.
	AlertCount int `json:"alert_count"`
}

// UploadSection lists the processed documents.
type UploadSection struct {
	Visible bool `json:"visible"`

	// Documents holds one row per extracted document.
	Documents []DocumentRow `json:"documents,omitempty"`

	// Placeholder is set when there is no extraction data to show.
	Placeholder string `json:"placeholder,omitempty"`
}

// DocumentRow is one processed document in the upload section.
type DocumentRow struct {
	Filename string `json:"filename"`

	// Summary is the document summary or "-".
	Summary string `json:"summary"`

	// Invoice, Date, Amount, Exporter, Consignee, and Route are formatted
	// key fields, "-" when absent. Route is "loading port -> destination
	// port" with absent ends rendered as "-".
	Invoice   string `json:"invoice"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	Exporter  string `json:"exporter"`
	Consignee string `json:"consignee"`
	Route     string `json:"route"`

	// ItemCount is the number of detected line items.
	ItemCount int `json:"item_count"`
}

// CognitiveSection holds the score ring, breakdown, and trend.
type CognitiveSection struct {
	Visible bool `json:"visible"`

	// HasScore reports whether the payload carried a cognitive score.
	HasScore bool `json:"has_score"`

	// Score is the formatted score ("87.0") or "-".
	Score string `json:"score"`

	// RiskLabel is the bucket label ("Low Risk", "Moderate Risk",
	// "High Risk") or "-" without a score.
	RiskLabel string `json:"risk_label"`

	// RingClass is "green", "amber", or "red", or "-" without a score.
	RingClass string `json:"ring_class"`

	// Summary is the cognitive summary or a placeholder message.
	Summary string `json:"summary"`

	// Breakdown lists per-component scores, sorted by component name.
	Breakdown []BreakdownRow `json:"breakdown,omitempty"`

	// Trend lists historical runs, oldest first.
	Trend []TrendRow `json:"trend,omitempty"`

	// Note is the recurrence anomaly note, empty when none.
	Note string `json:"note,omitempty"`

	// Placeholder is set when there is no cognitive data at all.
	Placeholder string `json:"placeholder,omitempty"`
}

// BreakdownRow is one component of the cognitive score breakdown.
type BreakdownRow struct {
	Component string `json:"component"`

	// Risk is the pass-through qualitative level (Low, Medium, High).
	Risk string `json:"risk"`

	// Score is the formatted component score with one decimal.
	Score string `json:"score"`
}

// TrendRow is one historical run in the trend chart tooltip form.
type TrendRow struct {
	// Timestamp is the run time formatted as a full local date-time, or "-".
	Timestamp string `json:"timestamp"`

	// Score is the formatted cognitive score with one decimal.
	Score string `json:"score"`

	// Tier is the pass-through qualitative tier.
	Tier string `json:"tier"`

	// MismatchCount is the run's mismatch count.
	MismatchCount int `json:"mismatch_count"`

	// Exporters and Ports are ", "-joined secondary lines; empty strings
	// mean the line is suppressed entirely.
	Exporters string `json:"exporters,omitempty"`
	Ports     string `json:"ports,omitempty"`
}

// SanctionsSection holds the sanction screening results.
type SanctionsSection struct {
	Visible bool `json:"visible"`

	// Present reports whether the payload carried a sanction analysis.
	Present bool `json:"present"`

	// Summary is the analysis summary, empty when absent.
	Summary string `json:"summary,omitempty"`

	// RiskLevel is the pass-through qualitative level.
	RiskLevel string `json:"risk_level,omitempty"`

	// Hits holds one row per flagged entity.
	Hits []SanctionRow `json:"hits,omitempty"`

	// Placeholder is set when there is no sanction data to show.
	Placeholder string `json:"placeholder,omitempty"`
}

// SanctionRow is one flagged entity in the sanction screening table.
type SanctionRow struct {
	Entity   string `json:"entity"`
	Type     string `json:"type"`
	Reason   string `json:"reason"`
	Document string `json:"document"`
}

// ComparisonSection holds the side-by-side table and the mismatch report.
type ComparisonSection struct {
	Visible bool `json:"visible"`

	// Header is the table header: "Field", one column per file, "Status".
	Header []string `json:"header,omitempty"`

	// Rows holds the comparison table rows. Every row has exactly
	// len(files)+2 cells, padded with "-" where values are absent.
	Rows []ComparisonCells `json:"rows,omitempty"`

	// Placeholder is set when there is no comparison table to show.
	Placeholder string `json:"placeholder,omitempty"`

	// Mismatches lists the explained mismatches.
	Mismatches []MismatchRow `json:"mismatches,omitempty"`

	// MismatchPlaceholder is set when the mismatch report is empty.
	MismatchPlaceholder string `json:"mismatch_placeholder,omitempty"`

	// Pairwise lists mismatched or missing document-pair rows.
	Pairwise []PairwiseDisplay `json:"pairwise,omitempty"`
}

// ComparisonCells is one formatted comparison table row.
type ComparisonCells struct {
	// Status is the raw row status (Match, Mismatch, Missing) for writers
	// that color rows; the same value is also the last cell.
	Status string `json:"status"`

	// Cells is field label, one value per file, then status.
	Cells []string `json:"cells"`
}

// MismatchRow is one explained mismatch.
type MismatchRow struct {
	// Field is the title-cased field label.
	Field string `json:"field"`

	// Values is the " | "-joined conflicting values.
	Values string `json:"values"`

	// Issue and Suggestion are the backend explanation, "-" when absent.
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`

	// Severity is the pass-through qualitative level.
	Severity string `json:"severity"`
}

// PairwiseDisplay is one document-pair comparison row.
type PairwiseDisplay struct {
	Field string `json:"field"`

	// Pair is "doc1 vs doc2".
	Pair string `json:"pair"`

	// Values is "value1 | value2" with "-" placeholders.
	Values string `json:"values"`

	Status string `json:"status"`

	// Issue is the pair explanation summary, "-" when absent.
	Issue string `json:"issue"`

	// Severity is the pass-through explanation severity.
	Severity string `json:"severity"`
}

// AnalysisSection holds HS-code, Incoterm, pattern, fraud, and heatmap data.
type AnalysisSection struct {
	Visible bool `json:"visible"`

	// HS and Incoterm are the respective analyses, nil when absent.
	HS       *AnalysisBlock `json:"hs,omitempty"`
	Incoterm *AnalysisBlock `json:"incoterm,omitempty"`

	// Patterns and Fraud list anomaly and integrity findings.
	Patterns []AlertRow `json:"patterns,omitempty"`
	Fraud    []AlertRow `json:"fraud,omitempty"`

	// Heatmap lists exporter/port risk cells, highest risk first.
	Heatmap []HeatRow `json:"heatmap,omitempty"`

	// Placeholder is set when no analysis data is present at all.
	Placeholder string `json:"placeholder,omitempty"`
}

// AnalysisBlock is a rendered RiskAnalysis.
type AnalysisBlock struct {
	Title string `json:"title"`

	// Summary is the analysis summary or "-".
	Summary string `json:"summary"`

	// RiskLevel is the pass-through qualitative level.
	RiskLevel string `json:"risk_level"`

	// Details holds pre-formatted detail lines; empty means no detail
	// lines are rendered.
	Details []string `json:"details,omitempty"`
}

// AlertRow is a rendered pattern alert or fraud finding.
type AlertRow struct {
	// Kind is the alert type or fraud rule name.
	Kind string `json:"kind"`

	// Document is the offending document or "-".
	Document string `json:"document"`

	// Message is the alert message or fraud explanation.
	Message string `json:"message"`

	// Severity is the pass-through qualitative level.
	Severity string `json:"severity"`

	// Values is the ", "-joined offending values; empty suppresses the line.
	Values string `json:"values,omitempty"`
}

// HeatRow is one rendered heatmap cell.
type HeatRow struct {
	Exporter string `json:"exporter"`
	Port     string `json:"port"`

	// Risk is the average risk formatted with one decimal ("85.0").
	Risk string `json:"risk"`

	// Class is the heat color class: high, medium, or low.
	Class string `json:"class"`

	// Color is the hex color for the class.
	Color string `json:"color"`

	// LastSeen is the local date the pair was last observed, or "-".
	LastSeen string `json:"last_seen"`
}
