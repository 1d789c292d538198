package offers

import (
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/jobs"
)

// Offerable reports whether a job in the given status still accepts offers.
// Anything short of closed, completed or cancelled does.
func Offerable(s jobs.Status) bool {
	switch s {
	case jobs.StatusClosed, jobs.StatusCompleted, jobs.StatusCancelled:
		return false
	}
	return true
}

// AcceptGuard checks the state preconditions for accepting an offer. The
// permission check happens separately against the job owner.
func AcceptGuard(offerStatus Status, jobStatus jobs.Status) *apperr.Error {
	if offerStatus != StatusPending {
		return apperr.State("offer no longer pending")
	}
	if !Offerable(jobStatus) {
		return apperr.State("job no longer open")
	}
	return nil
}

// RejectGuard - a pending offer can always be turned down, even after the
// client closed the job to new offers.
func RejectGuard(offerStatus Status) *apperr.Error {
	if offerStatus != StatusPending {
		return apperr.State("offer no longer pending")
	}
	return nil
}
