package jobs

import "time"

// Status mirrors the export lifecycle for persisted history rows.
type Status string

const (
	StatusRunning   Status = "running"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusRunning,
	StatusDelivered,
	StatusCancelled,
	StatusFailed,
}

// Valid reports whether the status is a known lifecycle value.
func (s Status) Valid() bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends a job.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

// Job is one export request persisted in SQLite.
type Job struct {
	ID              int64
	Mode            string
	Status          Status
	Fronts          int
	Batches         int
	Pages           int
	Filename        string
	OutputPath      string
	RequestID       string
	ErrorMessage    string
	ProgressPercent float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Summary aggregates job counts per lifecycle state.
type Summary struct {
	Total     int
	Running   int
	Delivered int
	Cancelled int
	Failed    int
}
