// Package batch splits sheets into page-aligned chunks that respect the
// per-artifact pixel budget.
package batch
