package models

// Dad profiles and bookings share one status vocabulary.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	// statusAccepted is the legacy dad-dashboard spelling of StatusApproved.
	statusAccepted = "accepted"
)

// NormalizeStatus folds the legacy "accepted" spelling into "approved".
// Every other value is returned unchanged.
func NormalizeStatus(status string) string {
	if status == statusAccepted {
		return StatusApproved
	}
	return status
}

// KnownStatus reports whether status (after normalization) is part of the vocabulary.
func KnownStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
