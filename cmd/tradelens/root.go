// Package main provides the entry point for the tradelens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tradelens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tradelens",
		Short: "Render trade-document analysis reports",
		Long: `tradelens renders the analysis payload produced by the trade-document
comparison backend as human-readable, JSON, Markdown, or PDF reports.

Rendered runs can be saved to a local history store, which powers the
risk trend and recurrence detection across runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
