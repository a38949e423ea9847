package model

import "testing"

// TestRiskLevelString tests the String method of RiskLevel.
func TestRiskLevelString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level    RiskLevel
		expected string
	}{
		{RiskLow, "Low"},
		{RiskMedium, "Medium"},
		{RiskHigh, "High"},
		{RiskLevel(999), "Low"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.level.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.level.String(), tc.expected)
			}
		})
	}
}

// TestParseRiskLevel tests the case-sensitive pass-through rule:
// "High" and "Medium" match exactly, everything else defaults to Low.
func TestParseRiskLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected RiskLevel
	}{
		{"High", RiskHigh},
		{"Medium", RiskMedium},
		{"Low", RiskLow},
		{"high", RiskLow},
		{"HIGH", RiskLow},
		{"medium", RiskLow},
		{"Moderate", RiskLow},
		{"", RiskLow},
		{"garbage", RiskLow},
	}

	for _, tc := range testCases {
		tc := tc
		name := tc.input
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := ParseRiskLevel(tc.input); got != tc.expected {
				t.Errorf("ParseRiskLevel(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

// TestCognitiveBucket tests the cognitive score thresholds:
// [90,100] is Low Risk, [70,90) is Moderate Risk, [0,70) is High Risk.
func TestCognitiveBucket(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		score float64
		label string
		ring  string
	}{
		{"perfect score", 100, BucketLowRisk, RingGreen},
		{"score 95", 95, BucketLowRisk, RingGreen},
		{"boundary 90", 90, BucketLowRisk, RingGreen},
		{"just below 90", 89.9, BucketModerateRisk, RingAmber},
		{"score 72", 72, BucketModerateRisk, RingAmber},
		{"boundary 70", 70, BucketModerateRisk, RingAmber},
		{"just below 70", 69.9, BucketHighRisk, RingRed},
		{"score 45", 45, BucketHighRisk, RingRed},
		{"zero", 0, BucketHighRisk, RingRed},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			label, ring := CognitiveBucket(tc.score)
			if label != tc.label {
				t.Errorf("CognitiveBucket(%v) label = %q, expected %q", tc.score, label, tc.label)
			}
			if ring != tc.ring {
				t.Errorf("CognitiveBucket(%v) ring = %q, expected %q", tc.score, ring, tc.ring)
			}
		})
	}
}

// TestCognitiveTier tests the qualitative tier derivation used by the
// history store.
func TestCognitiveTier(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		score    float64
		expected RiskLevel
	}{
		{100, RiskLow},
		{90, RiskLow},
		{89, RiskMedium},
		{70, RiskMedium},
		{69, RiskHigh},
		{0, RiskHigh},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected.String(), func(t *testing.T) {
			t.Parallel()
			if got := CognitiveTier(tc.score); got != tc.expected {
				t.Errorf("CognitiveTier(%v) = %v, expected %v", tc.score, got, tc.expected)
			}
		})
	}
}

// TestHeatBucket tests the heatmap thresholds, which intentionally differ
// from the cognitive thresholds: >80 is high, (60,80] is medium,
// [0,60] is low.
func TestHeatBucket(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		risk  float64
		class string
		color string
	}{
		{"risk 95", 95, HeatHigh, HeatColorHigh},
		{"risk 85", 85, HeatHigh, HeatColorHigh},
		{"just above 80", 80.1, HeatHigh, HeatColorHigh},
		{"boundary 80", 80, HeatMedium, HeatColorMedium},
		{"risk 70", 70, HeatMedium, HeatColorMedium},
		{"just above 60", 60.1, HeatMedium, HeatColorMedium},
		{"boundary 60", 60, HeatLow, HeatColorLow},
		{"risk 30", 30, HeatLow, HeatColorLow},
		{"zero", 0, HeatLow, HeatColorLow},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			class, color := HeatBucket(tc.risk)
			if class != tc.class {
				t.Errorf("HeatBucket(%v) class = %q, expected %q", tc.risk, class, tc.class)
			}
			if color != tc.color {
				t.Errorf("HeatBucket(%v) color = %q, expected %q", tc.risk, color, tc.color)
			}
		})
	}
}

// TestBucketPoliciesDiffer guards the boundary where the two policies
// disagree so they cannot be accidentally unified.
func TestBucketPoliciesDiffer(t *testing.T) {
	t.Parallel()

	// 85 is High Risk on the cognitive path only when below 70; on the
	// heatmap path 85 is already the high class.
	label, _ := CognitiveBucket(85)
	if label != BucketModerateRisk {
		t.Errorf("cognitive 85 = %q, expected %q", label, BucketModerateRisk)
	}
	class, _ := HeatBucket(85)
	if class != HeatHigh {
		t.Errorf("heatmap 85 = %q, expected %q", class, HeatHigh)
	}
}
