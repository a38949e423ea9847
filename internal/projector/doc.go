// Package projector turns an AnalysisReport into a RenderModel.
//
// Project is a pure, synchronous function: no I/O, no shared state, no
// goroutines. Re-projecting the same payload yields an identical model.
// Malformed or absent optional data degrades to documented placeholders;
// the only fatal input is a nil report.
//
// Design decision: All bucketing and formatting happens here so the report
// writers stay dumb. A writer that re-derived a color from a raw score
// would inevitably drift from the thresholds; by the time a model reaches
// a writer there are no raw numbers left to misinterpret.
package projector
