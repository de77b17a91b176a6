// Package output provides formatters for displaying diff results.
//
// Supported output formats:
//   - Console: colored line diff with a per-profile header and summary
//   - Plain: the line diff exactly as rendered, for piping
//   - Unified: a unified diff with hunk headers
//   - JSON: machine-readable results with tagged lines
//   - JUnit: JUnit XML where a profile with changes is a failed test case
//
// Formatters that accumulate results write them in Flush.
package output
