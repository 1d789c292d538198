package jobs

// transitions is the allowed status graph; undefined transitions are
// rejected.
var transitions = map[Status][]Status{
	StatusPendingRegistration: {StatusOpen, StatusCancelled},
	StatusOpen:                {StatusClosed, StatusInProgress, StatusCancelled},
	StatusClosed:              {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress:          {StatusCompleted, StatusCancelled},
	// completed and cancelled are terminal
}

// CanTransition reports whether from -> to is an allowed job transition.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
