// Package domain defines the core business entities for readysync.
//
// This package is the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Request: A work-order request fetched from the reporting API
//   - DateRange: An inclusive, ascending sequence of calendar dates
//   - FetchResult: Fetched records plus per-template failures
//   - RunReport / RunRecord: Outcome of a reconciliation run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
