package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbridge/gigbridge/internal/apperr"
)

func TestSubmitGuard(t *testing.T) {
	tests := []struct {
		status Status
		allow  bool
	}{
		{StatusActive, true},
		{StatusRevisionRequested, true},
		{StatusSubmitted, false},
		{StatusCompleted, false},
		{StatusCancelled, false},
		{StatusDisputed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			err := SubmitGuard(tt.status)
			if tt.allow {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, apperr.KindState, err.Kind)
			}
		})
	}
}

func TestApproveGuard(t *testing.T) {
	assert.Nil(t, ApproveGuard(StatusSubmitted))

	for _, s := range []Status{StatusActive, StatusRevisionRequested, StatusCompleted, StatusCancelled, StatusDisputed} {
		err := ApproveGuard(s)
		require.NotNil(t, err, "status %s", s)
		assert.Equal(t, apperr.KindState, err.Kind)
	}
}

func TestRevisionGuard(t *testing.T) {
	t.Run("submitted work under the cap passes", func(t *testing.T) {
		assert.Nil(t, RevisionGuard(StatusSubmitted, 0, 3))
		assert.Nil(t, RevisionGuard(StatusSubmitted, 2, 3))
	})

	t.Run("cap reached blocks the request", func(t *testing.T) {
		err := RevisionGuard(StatusSubmitted, 3, 3)
		require.NotNil(t, err)
		assert.Equal(t, "revision limit reached", err.Msg)
	})

	t.Run("count beyond cap still blocked", func(t *testing.T) {
		err := RevisionGuard(StatusSubmitted, 5, 3)
		require.NotNil(t, err)
		assert.Equal(t, "revision limit reached", err.Msg)
	})

	t.Run("zero cap blocks immediately", func(t *testing.T) {
		err := RevisionGuard(StatusSubmitted, 0, 0)
		require.NotNil(t, err)
		assert.Equal(t, "revision limit reached", err.Msg)
	})

	t.Run("non-submitted status blocked regardless of count", func(t *testing.T) {
		err := RevisionGuard(StatusActive, 0, 3)
		require.NotNil(t, err)
		assert.Equal(t, apperr.KindState, err.Kind)
	})
}

func TestCancelGuard(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusSubmitted, StatusRevisionRequested, StatusDisputed} {
		assert.Nil(t, CancelGuard(s), "status %s", s)
	}

	err := CancelGuard(StatusCompleted)
	require.NotNil(t, err)
	assert.Equal(t, "order is already completed", err.Msg)

	err = CancelGuard(StatusCancelled)
	require.NotNil(t, err)
	assert.Equal(t, "order is already cancelled", err.Msg)
}

func TestRatingValid(t *testing.T) {
	for _, r := range []int{1, 2, 3, 4, 5} {
		assert.True(t, RatingValid(r), "rating %d", r)
	}
	for _, r := range []int{0, -1, 6, 100} {
		assert.False(t, RatingValid(r), "rating %d", r)
	}
}
