// Package main provides the entry point for the tradelens CLI.
//
// tradelens renders the analysis payload produced by the trade-document
// comparison backend as terminal, JSON, Markdown, or PDF reports.
//
// Usage:
//
//	tradelens render <payload.json>
//	tradelens compare --list
//
// See --help for all available options.
package main

// main is the entry point for tradelens.
func main() {
	Execute()
}
