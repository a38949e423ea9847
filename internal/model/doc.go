// Package model defines the data structures shared across tradelens.
//
// It contains three groups of types:
//   - AnalysisReport and friends: the read-only JSON payload produced by the
//     document-comparison backend
//   - RiskLevel and the bucketing policies that turn scores into labels
//   - RenderModel: the normalized, display-ready projection consumed by the
//     report writers
//
// Types in this package are pure data with small classification helpers.
// All projection logic lives in the projector package.
package model
