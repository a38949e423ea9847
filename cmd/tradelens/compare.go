package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tradelens/tradelens/internal/config"
	"github.com/tradelens/tradelens/internal/history"
	"github.com/tradelens/tradelens/internal/model"
)

// Constants for risk direction and summary messages.
const (
	riskDirectionWorsened  = "worsened"
	riskDirectionImproved  = "improved"
	riskDirectionUnchanged = "unchanged"
	noScoreDisplay         = "N/A"
)

// NewCompareCmd creates the compare command.
// This command compares analysis runs stored in the history store.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare analysis runs from the history store",
		Long: `Compare displays differences between the latest and an earlier analysis run.

This command retrieves runs saved with 'tradelens render --save' and shows:
- The change in cognitive score and risk tier
- Mismatches that are new since the earlier run
- Mismatches that have been resolved

The comparison requires at least two saved runs. Use 'tradelens render --save'
to save runs to the history store.

Examples:
  # Compare the latest two runs
  tradelens compare

  # List all saved runs
  tradelens compare --list

  # Compare the latest run with a specific earlier run by ID
  tradelens compare --with-run-id 5

  # Compare with the first run since a specific date
  tradelens compare --since "2026-08-01"

  # Output comparison in JSON format
  tradelens compare --json`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List saved analysis runs")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	// History store location
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	historyDir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}
	if historyDir == "" {
		historyDir = config.XDGDataDir()
	}

	// Open the store read-only: comparing must not create an empty database.
	opts := history.DefaultOptions()
	opts.CreateIfNotExists = false
	store, err := history.Open(historyDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open history store (save runs with 'tradelens render --save' first): %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Handle --list flag
	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listRuns {
		return listRunHistory(ctx, store)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	// Perform comparison
	return runComparison(ctx, store, withRunID, sinceDate, jsonOutput, markdownOutput)
}

// listRunHistory lists all saved analysis runs.
func listRunHistory(ctx context.Context, store *history.Store) error {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs found in the history store.")
		fmt.Println("\nUse 'tradelens render --save <payload.json>' to save a run.")
		return nil
	}

	fmt.Printf("Saved runs (%d):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-8s  %-8s  %-10s  %s\n",
		"ID", "Date", "Score", "Tier", "Mismatches", "Exporters")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, run := range runs {
		score := noScoreDisplay
		if run.CognitiveScore != nil {
			score = strconv.FormatFloat(*run.CognitiveScore, 'f', 1, 64)
		}
		fmt.Printf("  %-6d  %-20s  %-8s  %-8s  %-10d  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			score,
			run.RiskTier,
			run.MismatchCount,
			strings.Join(run.Exporters, ", "),
		)
	}

	fmt.Println("\nUse 'tradelens compare' to compare the latest two runs.")
	fmt.Println("Use 'tradelens compare --with-run-id <id>' to compare with a specific run.")

	return nil
}

// runComparison performs the actual comparison between saved runs.
func runComparison(ctx context.Context, store *history.Store, withRunID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		return errors.New("no saved runs found (use 'tradelens render --save' first)")
	}

	if len(runs) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 saved runs are required for comparison (found %d)", len(runs))
	}

	// Latest run is always the current one
	currentMeta := runs[0]

	var previousMeta history.RunMetadata
	switch {
	case withRunID > 0:
		if withRunID == currentMeta.ID {
			return fmt.Errorf("run %d is the latest run; pick an earlier one", withRunID)
		}
		found := false
		for _, run := range runs {
			if run.ID == withRunID {
				previousMeta = run
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("run with ID %d not found (use --list to see available IDs)", withRunID)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		sinceRuns, err := store.ListRunsSince(ctx, parsedDate)
		if err != nil {
			return fmt.Errorf("failed to list runs since %s: %w", sinceDate, err)
		}
		if len(sinceRuns) == 0 {
			return fmt.Errorf("no runs found since %s", sinceDate)
		}

		// Runs are sorted newest first; the last one is the oldest run at or
		// after the date.
		previousMeta = sinceRuns[len(sinceRuns)-1]
		if previousMeta.ID == currentMeta.ID {
			return fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
	default:
		previousMeta = runs[1]
	}

	// Load the full payloads for the mismatch diff. The current run is by
	// definition the latest one in the store.
	currentPayload, currentID, err := store.LatestRun(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latest run: %w", err)
	}
	if currentPayload == nil || currentID != currentMeta.ID {
		return errors.New("run payload disappeared from the history store")
	}
	previousPayload, err := store.GetRun(ctx, previousMeta.ID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", previousMeta.ID, err)
	}
	if previousPayload == nil {
		return errors.New("run payload disappeared from the history store")
	}

	// Generate comparison result
	comparison := compareRuns(previousMeta, currentMeta, previousPayload, currentPayload)

	// Output the result
	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// RunComparison holds the result of comparing two analysis runs.
type RunComparison struct {
	// PreviousRun contains metadata about the earlier run.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the latest run.
	CurrentRun RunSummary `json:"current_run"`

	// ScoreChange describes the change in cognitive score and risk tier.
	ScoreChange ScoreChange `json:"score_change"`

	// NewMismatches contains mismatches that are new in the current run.
	NewMismatches []model.Mismatch `json:"new_mismatches,omitempty"`

	// ResolvedMismatches contains mismatches present in the previous run but
	// not in the current one.
	ResolvedMismatches []model.Mismatch `json:"resolved_mismatches,omitempty"`

	// UnchangedCount is the number of mismatches present in both runs.
	UnchangedCount int `json:"unchanged_count"`
}

// RunSummary contains metadata about a run for comparison display.
type RunSummary struct {
	// ID is the run's history store ID.
	ID int64 `json:"id"`

	// Timestamp is when the run was saved.
	Timestamp time.Time `json:"timestamp"`

	// CognitiveScore is the run's overall score; nil when the payload
	// carried no score.
	CognitiveScore *float64 `json:"cognitive_score,omitempty"`

	// RiskTier is the qualitative tier derived from the score.
	RiskTier string `json:"risk_tier,omitempty"`

	// MismatchCount is the number of mismatch report entries.
	MismatchCount int `json:"mismatch_count"`
}

// ScoreChange describes the change in risk between two runs.
type ScoreChange struct {
	// Direction is "improved", "worsened", or "unchanged". The cognitive
	// score is a confidence score, so a higher score means lower risk.
	Direction string `json:"direction"`

	// ScoreDelta is the change in cognitive score; nil when either run
	// carried no score.
	ScoreDelta *float64 `json:"score_delta,omitempty"`

	// MismatchDelta is the change in mismatch count.
	MismatchDelta int `json:"mismatch_delta"`

	// TierChanged reports whether the risk tier differs between the runs.
	TierChanged bool `json:"tier_changed"`
}

// compareRuns compares two analysis runs and generates a comparison result.
func compareRuns(previousMeta, currentMeta history.RunMetadata, previous, current *model.AnalysisReport) *RunComparison {
	result := &RunComparison{
		PreviousRun: runSummary(previousMeta),
		CurrentRun:  runSummary(currentMeta),
	}

	// Build mismatch maps for comparison
	previousMismatches := make(map[string]model.Mismatch)
	currentMismatches := make(map[string]model.Mismatch)

	for _, m := range previous.MismatchReport {
		previousMismatches[mismatchKey(m)] = m
	}
	for _, m := range current.MismatchReport {
		currentMismatches[mismatchKey(m)] = m
	}

	// Find new mismatches (in current but not in previous)
	for _, m := range current.MismatchReport {
		if _, exists := previousMismatches[mismatchKey(m)]; !exists {
			result.NewMismatches = append(result.NewMismatches, m)
		}
	}

	// Find resolved mismatches (in previous but not in current)
	for _, m := range previous.MismatchReport {
		key := mismatchKey(m)
		if _, exists := currentMismatches[key]; !exists {
			result.ResolvedMismatches = append(result.ResolvedMismatches, m)
		} else {
			result.UnchangedCount++
		}
	}

	result.ScoreChange = calculateScoreChange(result.PreviousRun, result.CurrentRun)

	return result
}

// runSummary extracts the display metadata from a stored run.
func runSummary(meta history.RunMetadata) RunSummary {
	return RunSummary{
		ID:             meta.ID,
		Timestamp:      meta.Timestamp,
		CognitiveScore: meta.CognitiveScore,
		RiskTier:       meta.RiskTier,
		MismatchCount:  meta.MismatchCount,
	}
}

// mismatchKey generates a unique key for a mismatch for comparison purposes.
// Two mismatches are the same issue when the field and the conflicting
// values are identical.
func mismatchKey(m model.Mismatch) string {
	return m.Field + "|" + fmt.Sprintf("%v", m.Values)
}

// calculateScoreChange calculates the change in risk between two runs.
// The cognitive score measures confidence, so the direction improves when
// the score rises. Runs without scores fall back to the mismatch count.
func calculateScoreChange(previous, current RunSummary) ScoreChange {
	change := ScoreChange{
		MismatchDelta: current.MismatchCount - previous.MismatchCount,
		TierChanged:   previous.RiskTier != current.RiskTier,
	}

	if previous.CognitiveScore != nil && current.CognitiveScore != nil {
		delta := *current.CognitiveScore - *previous.CognitiveScore
		change.ScoreDelta = &delta

		switch {
		case delta > 0:
			change.Direction = riskDirectionImproved
		case delta < 0:
			change.Direction = riskDirectionWorsened
		default:
			change.Direction = riskDirectionUnchanged
		}
		return change
	}

	switch {
	case change.MismatchDelta < 0:
		change.Direction = riskDirectionImproved
	case change.MismatchDelta > 0:
		change.Direction = riskDirectionWorsened
	default:
		change.Direction = riskDirectionUnchanged
	}
	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *RunComparison) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *RunComparison) error {
	fmt.Println("# Run Comparison")

	// Risk change summary
	fmt.Println("\n## Summary")
	fmt.Printf("\n**Risk Status:** %s\n\n", formatRiskDirection(result.ScoreChange.Direction))

	// Run metadata table
	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Run ID | %d | %d | - |\n",
		result.PreviousRun.ID, result.CurrentRun.ID)
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousRun.Timestamp.Format("2006-01-02 15:04"),
		result.CurrentRun.Timestamp.Format("2006-01-02 15:04"))
	fmt.Printf("| Score | %s | %s | %s |\n",
		formatScore(result.PreviousRun.CognitiveScore),
		formatScore(result.CurrentRun.CognitiveScore),
		formatScoreDelta(result.ScoreChange.ScoreDelta))
	fmt.Printf("| Tier | %s | %s | - |\n",
		result.PreviousRun.RiskTier, result.CurrentRun.RiskTier)
	fmt.Printf("| Mismatches | %d | %d | %s |\n",
		result.PreviousRun.MismatchCount,
		result.CurrentRun.MismatchCount,
		formatDelta(result.ScoreChange.MismatchDelta))

	// New mismatches
	if len(result.NewMismatches) > 0 {
		fmt.Printf("\n## New Mismatches (%d)\n\n", len(result.NewMismatches))
		for _, m := range result.NewMismatches {
			fmt.Printf("- **[%s]** %s: %s\n", m.Severity, m.Field, m.Summary())
		}
	}

	// Resolved mismatches
	if len(result.ResolvedMismatches) > 0 {
		fmt.Printf("\n## Resolved Mismatches (%d)\n\n", len(result.ResolvedMismatches))
		for _, m := range result.ResolvedMismatches {
			fmt.Printf("- ~~**[%s]** %s: %s~~\n", m.Severity, m.Field, m.Summary())
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d mismatches unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *RunComparison) error {
	fmt.Println("Run Comparison")
	fmt.Println(strings.Repeat("=", 60))

	// Risk change summary
	fmt.Printf("\nRisk Status: %s\n", formatRiskDirection(result.ScoreChange.Direction))

	// Run dates
	fmt.Printf("\nPrevious run: #%d  %s\n",
		result.PreviousRun.ID, result.PreviousRun.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current run:  #%d  %s\n",
		result.CurrentRun.ID, result.CurrentRun.Timestamp.Format("2006-01-02 15:04:05"))

	// Summary table
	fmt.Println("\nRun Summary:")
	fmt.Printf("  %-12s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 48))
	fmt.Printf("  %-12s  %-10s  %-10s  %-10s\n", "Score",
		formatScore(result.PreviousRun.CognitiveScore),
		formatScore(result.CurrentRun.CognitiveScore),
		formatScoreDelta(result.ScoreChange.ScoreDelta))
	fmt.Printf("  %-12s  %-10s  %-10s  %-10s\n", "Tier",
		result.PreviousRun.RiskTier, result.CurrentRun.RiskTier, "-")
	fmt.Printf("  %-12s  %-10d  %-10d  %-10s\n", "Mismatches",
		result.PreviousRun.MismatchCount, result.CurrentRun.MismatchCount,
		formatDelta(result.ScoreChange.MismatchDelta))

	// New mismatches
	if len(result.NewMismatches) > 0 {
		fmt.Printf("\nNew Mismatches (%d):\n", len(result.NewMismatches))
		for _, m := range result.NewMismatches {
			fmt.Printf("  [+] [%s] %s: %s\n", m.Severity, m.Field, m.Summary())
		}
	}

	// Resolved mismatches
	if len(result.ResolvedMismatches) > 0 {
		fmt.Printf("\nResolved Mismatches (%d):\n", len(result.ResolvedMismatches))
		for _, m := range result.ResolvedMismatches {
			fmt.Printf("  [-] [%s] %s: %s\n", m.Severity, m.Field, m.Summary())
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d mismatches\n", result.UnchangedCount)
	}

	return nil
}

// formatRiskDirection formats the risk change direction for display.
func formatRiskDirection(direction string) string {
	switch direction {
	case riskDirectionImproved:
		return "IMPROVED (confidence increased)"
	case riskDirectionWorsened:
		return "WORSENED (confidence decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatScore formats an optional cognitive score for display.
func formatScore(score *float64) string {
	if score == nil {
		return noScoreDisplay
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}

// formatScoreDelta formats an optional score delta with sign for display.
func formatScoreDelta(delta *float64) string {
	if delta == nil {
		return noScoreDisplay
	}
	formatted := strconv.FormatFloat(*delta, 'f', 1, 64)
	if *delta > 0 {
		return "+" + formatted
	}
	return formatted
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
