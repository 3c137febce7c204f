package models

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is one of the known loan statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

const (
	// DefaultDraftTTL is how long an unsubmitted draft survives in Redis.
	DefaultDraftTTL = 24 * 60 * 60 // 24 hours in seconds

	// SyncQueueSize is the sheet sync worker queue capacity.
	SyncQueueSize = 128

	// SheetsRowCacheTTL is the lifetime of the Sheets row index cache.
	SheetsRowCacheTTL = 60 * 60 // 1 hour in seconds
)
