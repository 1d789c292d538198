package orders

import "github.com/gigbridge/gigbridge/internal/apperr"

// SubmitGuard - work can go in while the order is active or after a
// revision was requested.
func SubmitGuard(s Status) *apperr.Error {
	if s != StatusActive && s != StatusRevisionRequested {
		return apperr.State("work can only be submitted while the order is active or awaiting a revision")
	}
	return nil
}

// ApproveGuard - only submitted work can be approved.
func ApproveGuard(s Status) *apperr.Error {
	if s != StatusSubmitted {
		return apperr.State("only submitted work can be approved")
	}
	return nil
}

// RevisionGuard - revisions apply to submitted work and the cap is a hard
// limit.
func RevisionGuard(s Status, revisionCount, maxRevisions int) *apperr.Error {
	if s != StatusSubmitted {
		return apperr.State("revisions can only be requested on submitted work")
	}
	if revisionCount >= maxRevisions {
		return apperr.State("revision limit reached")
	}
	return nil
}

// CancelGuard - either party may cancel until the order is terminal.
func CancelGuard(s Status) *apperr.Error {
	if s == StatusCompleted || s == StatusCancelled {
		return apperr.State("order is already " + string(s))
	}
	return nil
}

// RatingValid reports whether r is an accepted 1-5 rating.
func RatingValid(r int) bool { return r >= 1 && r <= 5 }

// revisionNotesMin is the minimum length of revision notes.
const revisionNotesMin = 10
