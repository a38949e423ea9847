package projector

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder is rendered for any absent or malformed optional value.
// Keeping a visible placeholder instead of omitting the cell keeps table
// column counts stable across rows.
const Placeholder = "-"

// Placeholder messages for sections with no data.
const (
	NoMismatches    = "No mismatches detected."
	NoComparison    = "No comparison data available."
	NoDocuments     = "No documents processed."
	NoCognitive     = "No cognitive analysis available."
	NoSanctionData  = "No sanction data available."
	NoAnalysisData  = "No analysis data available."
	NoSummary       = "No summary available."
	NoFilesUploaded = "No files processed."
)

// titleCaser converts backend field keys to display labels. A single caser
// is safe for concurrent use.
var titleCaser = cases.Title(language.English)

// fieldLabel converts a backend field key like "port_loading" to its
// display label "Port Loading". Empty keys degrade to the placeholder.
func fieldLabel(key string) string {
	if strings.TrimSpace(key) == "" {
		return Placeholder
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// formatPercent renders a percentage-style number with exactly one decimal
// place, e.g. 85 -> "85.0".
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatValue renders an arbitrary payload cell value. Nil and blank values
// become the placeholder; numbers render without a forced decimal (only
// percentages carry the one-decimal rule).
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return Placeholder
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return Placeholder
		}
		return s
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		joined := joinAny(val, ", ")
		if joined == "" {
			return Placeholder
		}
		return joined
	default:
		return Placeholder
	}
}

// orPlaceholder returns the trimmed string or the placeholder when blank.
func orPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return s
}

// joinStrings joins non-blank elements with the separator. An empty result
// means the caller should suppress the line entirely rather than print an
// empty list.
func joinStrings(values []string, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, sep)
}

// joinAny joins non-nil, non-blank elements with the separator, formatting
// each through formatValue semantics minus the placeholder fallback.
func joinAny(values []any, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			s := strings.TrimSpace(val)
			if s == "" {
				continue
			}
			parts = append(parts, s)
		case float64:
			parts = append(parts, strconv.FormatFloat(val, 'f', -1, 64))
		case bool:
			parts = append(parts, strconv.FormatBool(val))
		}
	}
	return strings.Join(parts, sep)
}

// joinAnyCells joins every element with the separator, rendering absent
// elements as placeholders. Used where column positions matter (mismatch
// value columns), unlike joinAny which suppresses absent elements.
func joinAnyCells(values []any, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, formatValue(v))
	}
	return strings.Join(parts, sep)
}

// payloadTimeFormats are the timestamp shapes the backend emits. The
// backend writes naive-UTC isoformat; offsets appear only in payloads that
// passed through other tooling. Go's parser accepts a fractional-second
// field even when the layout omits it, so these cover microsecond variants.
var payloadTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parsePayloadTime parses a backend timestamp. Bare timestamps are
// interpreted as UTC per the backend's utcnow() convention.
func parsePayloadTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range payloadTimeFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatLocalDateTime renders a payload timestamp as a full date-time in
// the viewer's zone, for trend tooltips. Unparseable input degrades to the
// placeholder.
func formatLocalDateTime(s string, loc *time.Location) string {
	t, ok := parsePayloadTime(s)
	if !ok {
		return Placeholder
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

// formatLocalDate renders a payload timestamp date-only in the viewer's
// zone, for heatmap last-seen cells.
func formatLocalDate(s string, loc *time.Location) string {
	t, ok := parsePayloadTime(s)
	if !ok {
		return Placeholder
	}
	return t.In(loc).Format("2006-01-02")
}
