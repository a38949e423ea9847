package model

import (
	"encoding/json"
	"testing"
)

// samplePayload mirrors the backend's /compare response shape, including
// the mixed-type value arrays and the naive-UTC timestamps it emits.
const samplePayload = `{
  "files_processed": ["invoice.pdf", "packing_list.pdf"],
  "extracted_data": [
    {"filename": "invoice.pdf", "summary": "Invoice INV-001 from Acme Ltd", "invoice_no": "INV-001", "exporter": "Acme Ltd", "qty_sum": 120,
     "items": [{"Description": "Copper wire", "HS Code": "854411", "Quantity": "120", "Amount": "9,500.00", "Currency": "USD"}]},
    {"filename": "packing_list.pdf", "summary": "Packing list for INV-001", "invoice_no": "INV-001", "exporter": "Acme Limited", "qty_sum": 118}
  ],
  "mismatch_report": [
    {"field": "exporter", "values": ["Acme Ltd", "Acme Limited"], "issue": "Exporter/shipper mismatch: Acme Ltd vs Acme Limited.", "suggestion": "Confirm the legal entity.", "severity": "Medium"},
    {"field": "qty_sum", "values": [120, 118], "issue": "Qty Sum mismatch: 120 vs 118.", "suggestion": "Verify item totals.", "severity": "Medium"}
  ],
  "comparison_report": [
    {"field": "invoice_no", "values": ["INV-001", "INV-001"], "status": "Match"},
    {"field": "exporter", "values": ["Acme Ltd", "Acme Limited"], "status": "Mismatch"},
    {"field": "currency", "values": [null, null], "status": "Missing"}
  ],
  "cognitive_score": 72,
  "cognitive_summary": "Across 2 documents, 2 field mismatches. Overall trade confidence is Medium (72%).",
  "cognitive_breakdown": {
    "HS Code": {"risk": "Low", "score": 95},
    "Mismatches": {"risk": "Medium", "score": 68}
  },
  "risk_history": {
    "total_records": 2,
    "recurring_exporters": ["Acme Ltd"],
    "trend_data": [
      {"timestamp": "2026-08-20T10:15:00.123456", "cognitive_score": 88, "risk_tier": "Medium", "exporters": ["Acme Ltd"], "ports": ["Rotterdam"], "mismatch_count": 1},
      {"timestamp": "2026-08-23T08:00:00.654321", "cognitive_score": 72, "risk_tier": "Medium", "exporters": ["Acme Ltd", null], "mismatch_count": 2}
    ]
  },
  "sanction_analysis": {
    "summary": "1 potential sanction-related entities detected.",
    "risk_level": "High",
    "details": [{"entity": "NOVOROSSIYSK", "type": "Port", "reason": "Restricted port / embargoed route", "document": "invoice.pdf"}]
  },
  "hs_analysis": {"summary": "All documents share the same HS Code: 854411", "risk_level": "Low", "details": [{"doc": "invoice.pdf", "hs": "854411"}]},
  "pattern_alerts": [
    {"type": "Exporter Name Variation", "values": ["Acme Ltd", "Acme Limited"], "severity": "Medium", "message": "Exporter names vary slightly across documents."}
  ],
  "fraud_report": [
    {"rule": "Exporter name format variation", "severity": "Medium", "explanation": "Exporter names differ slightly: Acme Ltd, Acme Limited"}
  ],
  "heatmap_data": [
    {"exporter": "Acme Ltd", "port": "Rotterdam", "avg_risk": 85.0, "last_seen": "2026-08-23T08:00:00.654321"}
  ]
}`

// TestAnalysisReportDecode tests that a realistic backend payload decodes
// with all optional sub-reports in place.
func TestAnalysisReportDecode(t *testing.T) {
	t.Parallel()

	var report AnalysisReport
	if err := json.Unmarshal([]byte(samplePayload), &report); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	if len(report.FilesProcessed) != 2 {
		t.Errorf("expected 2 files, got %d", len(report.FilesProcessed))
	}
	if report.CognitiveScore == nil || *report.CognitiveScore != 72 {
		t.Errorf("expected cognitive score 72, got %v", report.CognitiveScore)
	}
	if len(report.MismatchReport) != 2 {
		t.Errorf("expected 2 mismatches, got %d", len(report.MismatchReport))
	}
	if report.SanctionAnalysis == nil {
		t.Fatal("expected sanction analysis to be present")
	}
	if report.SanctionAnalysis.RiskLevel != "High" {
		t.Errorf("expected High sanction risk, got %q", report.SanctionAnalysis.RiskLevel)
	}
	if report.IncotermAnalysis != nil {
		t.Error("expected incoterm analysis to be absent")
	}
	if report.RiskHistory == nil || len(report.RiskHistory.TrendData) != 2 {
		t.Fatal("expected 2 trend points")
	}

	// A null element inside a string array must decode to the empty string,
	// not fail the whole payload.
	second := report.RiskHistory.TrendData[1]
	if len(second.Exporters) != 2 || second.Exporters[1] != "" {
		t.Errorf("expected null exporter to decode as empty string, got %#v", second.Exporters)
	}

	// Mixed-type value arrays keep their numeric elements.
	qty := report.MismatchReport[1]
	if len(qty.Values) != 2 {
		t.Fatalf("expected 2 qty values, got %d", len(qty.Values))
	}
	if _, ok := qty.Values[0].(float64); !ok {
		t.Errorf("expected numeric qty value, got %T", qty.Values[0])
	}
}

// TestMismatchSummary tests the dual-key issue/issue_summary handling.
func TestMismatchSummary(t *testing.T) {
	t.Parallel()

	t.Run("prefers issue key", func(t *testing.T) {
		t.Parallel()
		m := Mismatch{Issue: "from issue", IssueSummary: "from issue_summary"}
		if got := m.Summary(); got != "from issue" {
			t.Errorf("got %q, expected %q", got, "from issue")
		}
	})

	t.Run("falls back to issue_summary", func(t *testing.T) {
		t.Parallel()
		m := Mismatch{IssueSummary: "from issue_summary"}
		if got := m.Summary(); got != "from issue_summary" {
			t.Errorf("got %q, expected %q", got, "from issue_summary")
		}
	})

	t.Run("empty when both absent", func(t *testing.T) {
		t.Parallel()
		var m Mismatch
		if got := m.Summary(); got != "" {
			t.Errorf("got %q, expected empty", got)
		}
	})
}
