// Package jobs persists export history in SQLite so finished and failed
// exports stay inspectable from the CLI after the process exits.
package jobs
