package services

import (
	"fmt"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
)

// statusRecorder receives a tick for every persisted status change.
type statusRecorder interface {
	StatusChanged(entity, status string)
}

type noopRecorder struct{}

func (noopRecorder) StatusChanged(string, string) {}
func (noopRecorder) BookingSubmitted()            {}

// transition decides whether a record in status current may move to requested.
// Only pending records can be decided. Repeating the current decision returns
// changed=false so callers can skip the write.
func transition(entity, current, requested string) (next string, changed bool, err error) {
	next = models.NormalizeStatus(requested)
	if next != models.StatusApproved && next != models.StatusRejected {
		return "", false, errs.NewValidationError("status must be approved or rejected")
	}
	current = models.NormalizeStatus(current)
	if current == next {
		return next, false, nil
	}
	if current != models.StatusPending {
		return "", false, errs.NewConflictError(fmt.Sprintf("%s is already %s", entity, current))
	}
	return next, true, nil
}

// listStatus resolves the status query parameter of the admin and dad lists.
func listStatus(status, fallback string) (string, error) {
	if status == "" {
		return fallback, nil
	}
	if !models.KnownStatus(status) {
		return "", errs.NewValidationError("unknown status: " + status)
	}
	return models.NormalizeStatus(status), nil
}
