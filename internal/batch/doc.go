// Package batch provides concurrent rendering of multiple payload files.
//
// The Processor fans render work out across a bounded number of goroutines
// and collects per-file results in input order. A malformed file records
// its error in the result instead of aborting the batch.
package batch
