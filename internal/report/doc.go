// Package report provides render-model output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for documentation and sharing
//   - PDFWriter: PDF output for compliance archives
//
// Design decision: We separate report writing from the render model
// (which lives in the model package) to follow the single responsibility
// principle. Writers lay the model out but never re-derive risk buckets
// or formatting; that already happened in the projector.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
