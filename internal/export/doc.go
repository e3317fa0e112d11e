// Package export sequences card-face resolution, planning, batching,
// rendering, and merging into print-ready deliverables. The orchestrator is
// single-threaded and cooperative: it suspends only while awaiting back
// lookups, per-batch rendering, and the final merge, and it checks for
// cancellation before starting each batch.
package export
