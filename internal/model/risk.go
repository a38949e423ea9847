package model

// RiskLevel represents a qualitative risk level attached to analyses,
// mismatches, and alerts.
//
// Design decision: We use iota-based constants rather than raw strings so
// levels can be compared and sorted. The String() method restores the
// backend's display form.
type RiskLevel int

const (
	// RiskLow indicates no significant issue. It is also the default for
	// unrecognized level strings, so a malformed payload never inflates
	// displayed risk.
	RiskLow RiskLevel = iota

	// RiskMedium indicates an issue that warrants review before clearance.
	RiskMedium

	// RiskHigh indicates an issue that blocks clearance until resolved.
	RiskHigh
)

// String returns the backend's display form of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// ParseRiskLevel maps a backend risk_level or severity string to a RiskLevel.
// The match is case-sensitive on "High" and "Medium"; anything else,
// including the empty string, is RiskLow. The backend only ever emits the
// three canonical forms, so a lenient match would mask payload corruption
// instead of degrading it.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "High":
		return RiskHigh
	case "Medium":
		return RiskMedium
	default:
		return RiskLow
	}
}

// Cognitive score bucket labels and ring color classes.
const (
	BucketLowRisk      = "Low Risk"
	BucketModerateRisk = "Moderate Risk"
	BucketHighRisk     = "High Risk"

	RingGreen = "green"
	RingAmber = "amber"
	RingRed   = "red"
)

// CognitiveBucket maps a cognitive score in [0,100] to its display bucket
// and the score-ring color class: >=90 is Low Risk (green), 70..89 is
// Moderate Risk (amber), below 70 is High Risk (red).
func CognitiveBucket(score float64) (label, ring string) {
	switch {
	case score >= 90:
		return BucketLowRisk, RingGreen
	case score >= 70:
		return BucketModerateRisk, RingAmber
	default:
		return BucketHighRisk, RingRed
	}
}

// CognitiveTier maps a cognitive score to the qualitative tier the backend
// records in its run history. Same thresholds as CognitiveBucket, different
// vocabulary: the tier is stored and compared, the bucket is displayed.
func CognitiveTier(score float64) RiskLevel {
	switch {
	case score >= 90:
		return RiskLow
	case score >= 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Heatmap color classes and their hex colors.
const (
	HeatHigh   = "high"
	HeatMedium = "medium"
	HeatLow    = "low"

	HeatColorHigh   = "#ef4444"
	HeatColorMedium = "#f59e0b"
	HeatColorLow    = "#22c55e"
)

// HeatBucket maps an average risk percentage in [0,100] to the heatmap
// color class and hex color: >80 is high, 61..80 is medium, <=60 is low.
//
// These thresholds intentionally differ from CognitiveBucket: cognitive
// scores measure confidence (higher is better) while heatmap values measure
// risk (higher is worse), and the dashboard views they feed use different
// cut points. Do not unify the two policies.
func HeatBucket(risk float64) (class, color string) {
	switch {
	case risk > 80:
		return HeatHigh, HeatColorHigh
	case risk > 60:
		return HeatMedium, HeatColorMedium
	default:
		return HeatLow, HeatColorLow
	}
}
