package model

// AnalysisReport is the payload returned by the document-comparison backend
// after a successful multi-document upload. tradelens never produces this
// structure; it only consumes it.
//
// Design decision: Every nested report is either a pointer or a slice so
// that absence is distinguishable from emptiness. The backend omits whole
// sub-reports depending on which analysis phases ran, and the projector
// treats a nil sub-report as "no data for this section" rather than an
// error. Cell values are declared as any because the backend mixes strings,
// numbers, and nulls inside the same value arrays (qty_sum rows are numeric,
// everything else is text).
type AnalysisReport struct {
	// FilesProcessed lists the uploaded filenames in comparison order.
	// comparison_report value columns follow this order.
	FilesProcessed []string `json:"files_processed"`

	// ExtractedData holds the per-document extraction results.
	ExtractedData []ExtractedDocument `json:"extracted_data,omitempty"`

	// MismatchReport lists fields whose values disagree across documents.
	MismatchReport []Mismatch `json:"mismatch_report,omitempty"`

	// ComparisonReport is the side-by-side field comparison table.
	ComparisonReport []ComparisonRow `json:"comparison_report,omitempty"`

	// PairwiseComparison holds per-document-pair comparison rows.
	PairwiseComparison []PairwiseRow `json:"pairwise_comparison,omitempty"`

	// CognitiveScore is the overall trade-confidence score in [0,100].
	// Nil when the backend skipped the cognitive phase.
	CognitiveScore *float64 `json:"cognitive_score,omitempty"`

	// CognitiveSummary is the backend's natural-language summary.
	CognitiveSummary string `json:"cognitive_summary,omitempty"`

	// CognitiveBreakdown maps component names (HS Code, Sanctions, ...) to
	// their per-component risk and score.
	CognitiveBreakdown map[string]BreakdownEntry `json:"cognitive_breakdown,omitempty"`

	// RiskHistory carries the backend's run-history tracker output.
	RiskHistory *RiskHistory `json:"risk_history,omitempty"`

	// HSAnalysis reports HS-code consistency across documents.
	HSAnalysis *RiskAnalysis `json:"hs_analysis,omitempty"`

	// SanctionAnalysis reports sanctioned-entity screening results.
	SanctionAnalysis *RiskAnalysis `json:"sanction_analysis,omitempty"`

	// IncotermAnalysis reports detected Incoterms and their consistency.
	IncotermAnalysis *RiskAnalysis `json:"incoterm_analysis,omitempty"`

	// PatternAlerts lists statistical anomalies (value spikes, name drift).
	PatternAlerts []PatternAlert `json:"pattern_alerts,omitempty"`

	// FraudReport lists rule-based invoice integrity findings.
	FraudReport []FraudFinding `json:"fraud_report,omitempty"`

	// HeatmapData aggregates average risk per exporter/destination-port pair.
	HeatmapData []HeatmapCell `json:"heatmap_data,omitempty"`
}

// ExtractedDocument is the extraction result for a single uploaded file.
type ExtractedDocument struct {
	// Filename is the original uploaded file name.
	Filename string `json:"filename"`

	// Summary is a one-line natural-language description of the document.
	Summary string `json:"summary,omitempty"`

	// InvoiceNo is the detected invoice or reference number.
	InvoiceNo string `json:"invoice_no,omitempty"`

	// Date is the detected document date, as extracted (not normalized).
	Date string `json:"date,omitempty"`

	// Amount is the detected total amount, as extracted.
	Amount string `json:"amount,omitempty"`

	// Currency is the detected transaction currency.
	Currency string `json:"currency,omitempty"`

	// Exporter is the detected exporter/shipper legal entity.
	Exporter string `json:"exporter,omitempty"`

	// Consignee is the detected consignee/buyer legal entity.
	Consignee string `json:"consignee,omitempty"`

	// PortLoading is the detected port of loading.
	PortLoading string `json:"port_loading,omitempty"`

	// PortDest is the detected port of destination or discharge.
	PortDest string `json:"port_dest,omitempty"`

	// Mode is the detected mode of transport (Sea, Air, ...).
	Mode string `json:"mode,omitempty"`

	// QtySum is the sum of line-item quantities.
	QtySum int `json:"qty_sum,omitempty"`

	// Items holds the detected line items.
	Items []LineItem `json:"items,omitempty"`
}

// LineItem is a single detected invoice line item.
// The JSON keys use the backend's display-style capitalization.
type LineItem struct {
	Description string `json:"Description,omitempty"`
	HSCode      string `json:"HS Code,omitempty"`
	Quantity    string `json:"Quantity,omitempty"`
	Amount      string `json:"Amount,omitempty"`
	Currency    string `json:"Currency,omitempty"`
}

// Mismatch describes a field whose values disagree across documents.
type Mismatch struct {
	// Field is the backend field key (invoice_no, qty_sum, ...).
	Field string `json:"field"`

	// Values holds the conflicting values, one per document.
	Values []any `json:"values,omitempty"`

	// Issue is the backend's explanation of the mismatch. Older payloads
	// use the issue_summary key instead; see Summary.
	Issue string `json:"issue,omitempty"`

	// IssueSummary is the alternate key some payload revisions use.
	IssueSummary string `json:"issue_summary,omitempty"`

	// Suggestion is the backend's remediation advice.
	Suggestion string `json:"suggestion,omitempty"`

	// Severity is a qualitative level: "Low", "Medium", or "High".
	Severity string `json:"severity,omitempty"`
}

// Summary returns the mismatch explanation regardless of which JSON key the
// backend revision used.
func (m Mismatch) Summary() string {
	if m.Issue != "" {
		return m.Issue
	}
	return m.IssueSummary
}

// Comparison row statuses emitted by the backend.
const (
	StatusMatch    = "Match"
	StatusMismatch = "Mismatch"
	StatusMissing  = "Missing"
)

// ComparisonRow is one row of the side-by-side comparison table.
type ComparisonRow struct {
	// Field is the backend field key.
	Field string `json:"field"`

	// Values holds one value per processed file, in files_processed order.
	// The length may disagree with files_processed; renderers must pad or
	// truncate rather than fail.
	Values []any `json:"values,omitempty"`

	// Status is Match, Mismatch, or Missing.
	Status string `json:"status,omitempty"`
}

// PairwiseRow compares a single field between two specific documents.
type PairwiseRow struct {
	Field       string           `json:"field"`
	Doc1        string           `json:"doc1,omitempty"`
	Doc2        string           `json:"doc2,omitempty"`
	Value1      any              `json:"value1,omitempty"`
	Value2      any              `json:"value2,omitempty"`
	Status      string           `json:"status,omitempty"`
	Explanation *PairExplanation `json:"explanation,omitempty"`
}

// PairExplanation is the backend's rule-based explanation for a pairwise
// mismatch.
type PairExplanation struct {
	Field        string `json:"field,omitempty"`
	IssueSummary string `json:"issue_summary,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Value1       string `json:"value1,omitempty"`
	Value2       string `json:"value2,omitempty"`
}

// BreakdownEntry is one component of the cognitive score breakdown.
type BreakdownEntry struct {
	// Risk is a qualitative level: "Low", "Medium", or "High".
	Risk string `json:"risk,omitempty"`

	// Score is the component score in [0,100].
	Score float64 `json:"score"`
}

// RiskAnalysis is the common shape of the HS-code, sanction, and Incoterm
// analyses: a summary line, a qualitative risk level, and detail rows.
type RiskAnalysis struct {
	// Summary is the backend's one-line conclusion.
	Summary string `json:"summary,omitempty"`

	// RiskLevel is "Low", "Medium", or "High". Anything else is treated
	// as Low by ParseRiskLevel.
	RiskLevel string `json:"risk_level,omitempty"`

	// Details holds analysis-specific rows. The populated fields depend on
	// the analysis kind; see AnalysisDetail.
	Details []AnalysisDetail `json:"details,omitempty"`
}

// AnalysisDetail is a detail row of a RiskAnalysis. The backend emits
// different keys per analysis kind, so this struct is the union of them:
// HS-code rows populate Doc and HS, sanction rows populate Entity, Type,
// Reason, and Document, Incoterm rows populate Document and Term.
type AnalysisDetail struct {
	Doc      string `json:"doc,omitempty"`
	HS       string `json:"hs,omitempty"`
	Entity   string `json:"entity,omitempty"`
	Type     string `json:"type,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Document string `json:"document,omitempty"`
	Term     string `json:"term,omitempty"`
}

// PatternAlert is a statistical anomaly detected across the document set.
type PatternAlert struct {
	// Type names the anomaly (Value Spike, Exporter Name Variation, ...).
	Type string `json:"type,omitempty"`

	// Doc is the offending document, when the alert is document-specific.
	Doc string `json:"doc,omitempty"`

	// Value is the offending value for single-value alerts.
	Value any `json:"value,omitempty"`

	// Values holds the varying values for multi-value alerts.
	Values []any `json:"values,omitempty"`

	// Mean and ZScore describe the deviation for value-spike alerts.
	Mean   *float64 `json:"mean,omitempty"`
	ZScore *float64 `json:"z_score,omitempty"`

	// Severity is a qualitative level: "Low", "Medium", or "High".
	Severity string `json:"severity,omitempty"`

	// Message is the human-readable alert text.
	Message string `json:"message,omitempty"`
}

// FraudFinding is a rule-based invoice integrity finding.
type FraudFinding struct {
	// Rule names the violated rule.
	Rule string `json:"rule,omitempty"`

	// Severity is a qualitative level: "Low", "Medium", or "High".
	Severity string `json:"severity,omitempty"`

	// Doc is the offending document, when the finding is document-specific.
	Doc string `json:"doc,omitempty"`

	// Explanation is the human-readable finding text.
	Explanation string `json:"explanation,omitempty"`
}

// RiskHistory is the backend's cognitive memory tracker output.
type RiskHistory struct {
	// TotalRecords is the number of runs the backend has retained.
	TotalRecords int `json:"total_records"`

	// RecurringExporters lists exporters seen in earlier runs.
	RecurringExporters []string `json:"recurring_exporters,omitempty"`

	// RecurringPorts lists destination ports seen in earlier runs.
	RecurringPorts []string `json:"recurring_ports,omitempty"`

	// Note is the backend's anomaly note, empty when no recurrence found.
	Note string `json:"note,omitempty"`

	// TrendData holds one point per retained run, oldest first.
	TrendData []TrendPoint `json:"trend_data,omitempty"`
}

// TrendPoint is a single historical run in the risk trend.
type TrendPoint struct {
	// Timestamp is the run time. The backend emits naive-UTC ISO 8601.
	Timestamp string `json:"timestamp,omitempty"`

	// CognitiveScore is the run's overall score in [0,100].
	CognitiveScore float64 `json:"cognitive_score"`

	// RiskTier is the run's qualitative tier (Low, Medium, High).
	RiskTier string `json:"risk_tier,omitempty"`

	// Exporters and Ports are the entities seen in that run.
	Exporters []string `json:"exporters,omitempty"`
	Ports     []string `json:"ports,omitempty"`

	// MismatchCount is the number of field mismatches in that run.
	MismatchCount int `json:"mismatch_count"`
}

// HeatmapCell aggregates risk for one exporter/destination-port pair.
type HeatmapCell struct {
	// Exporter is the exporter name, or "Unknown Exporter".
	Exporter string `json:"exporter,omitempty"`

	// Port is the destination port, or "Unknown Port".
	Port string `json:"port,omitempty"`

	// AvgRisk is the average risk percentage in [0,100].
	AvgRisk float64 `json:"avg_risk"`

	// LastSeen is when the pair was last observed, naive-UTC ISO 8601.
	LastSeen string `json:"last_seen,omitempty"`
}
