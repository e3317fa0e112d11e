package export

// Status tracks an export request through its lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPlanning  Status = "planning"
	StatusRendering Status = "rendering"
	StatusMerging   Status = "merging"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status ends a request.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}
