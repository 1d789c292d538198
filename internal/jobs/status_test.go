package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending registration opens", StatusPendingRegistration, StatusOpen, true},
		{"pending registration cancels", StatusPendingRegistration, StatusCancelled, true},
		{"pending registration cannot complete", StatusPendingRegistration, StatusCompleted, false},
		{"open closes", StatusOpen, StatusClosed, true},
		{"open starts work", StatusOpen, StatusInProgress, true},
		{"open cancels", StatusOpen, StatusCancelled, true},
		{"open cannot complete directly", StatusOpen, StatusCompleted, false},
		{"closed starts work", StatusClosed, StatusInProgress, true},
		{"closed completes", StatusClosed, StatusCompleted, true},
		{"closed cannot reopen", StatusClosed, StatusOpen, false},
		{"in progress completes", StatusInProgress, StatusCompleted, true},
		{"in progress cancels", StatusInProgress, StatusCancelled, true},
		{"in progress cannot reopen", StatusInProgress, StatusOpen, false},
		{"completed is terminal", StatusCompleted, StatusOpen, false},
		{"cancelled is terminal", StatusCancelled, StatusOpen, false},
		{"no self transition", StatusOpen, StatusOpen, false},
		{"unknown status has no transitions", Status("bogus"), StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{
		StatusPendingRegistration, StatusOpen, StatusClosed,
		StatusInProgress, StatusCompleted, StatusCancelled,
	} {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}
