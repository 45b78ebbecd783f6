// Package testutil provides test utilities for cadence, including:
//   - Miniredis helpers for unit tests (miniredis.go)
//   - Workbook table builders for pipeline tests (tables.go)
//
// None of the helpers require Docker; everything runs in-process.
package testutil
