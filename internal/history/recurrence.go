package history

import (
	"context"
	"strings"

	"github.com/tradelens/tradelens/internal/model"
)

// Recurrence builds a RiskHistory for the given report from stored runs:
// the score trend across retained runs plus the exporters and destination
// ports of the current report that were already seen in earlier runs.
//
// The current report is not expected to be saved yet; pass the same payload
// to SaveRun afterwards if the run should join the history.
func (s *Store) Recurrence(ctx context.Context, current *model.AnalysisReport) (*model.RiskHistory, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	history := &model.RiskHistory{
		TotalRecords: len(runs),
	}

	seenExporters := make(map[string]bool)
	seenPorts := make(map[string]bool)

	// ListRuns returns newest first; the trend reads oldest first.
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		point := model.TrendPoint{
			Timestamp:     run.Timestamp.UTC().Format("2006-01-02T15:04:05"),
			RiskTier:      run.RiskTier,
			Exporters:     run.Exporters,
			Ports:         run.Ports,
			MismatchCount: run.MismatchCount,
		}
		if run.CognitiveScore != nil {
			point.CognitiveScore = *run.CognitiveScore
		}
		history.TrendData = append(history.TrendData, point)

		for _, e := range run.Exporters {
			seenExporters[normalizeEntity(e)] = true
		}
		for _, p := range run.Ports {
			seenPorts[normalizeEntity(p)] = true
		}
	}

	if current != nil {
		exporters, ports := runEntities(current)
		for _, e := range exporters {
			if seenExporters[normalizeEntity(e)] {
				history.RecurringExporters = append(history.RecurringExporters, e)
			}
		}
		for _, p := range ports {
			if seenPorts[normalizeEntity(p)] {
				history.RecurringPorts = append(history.RecurringPorts, p)
			}
		}
	}

	if len(history.RecurringExporters) > 0 || len(history.RecurringPorts) > 0 {
		history.Note = "Recurring exporters or ports detected across recent runs."
	}

	return history, nil
}

// normalizeEntity folds case and whitespace so "ACME Ltd" and "acme ltd"
// count as the same entity.
func normalizeEntity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
