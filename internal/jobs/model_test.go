package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobRequestCheckInvariants(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	base := CreateJobRequest{
		Title:          "Landing page redesign",
		Description:    "Rework the marketing site",
		AssignmentType: TypeDesign,
		Subject:        "web design",
		Deadline:       now.AddDate(0, 0, 7),
		BudgetMin:      100,
		BudgetMax:      300,
	}

	t.Run("valid request passes", func(t *testing.T) {
		req := base
		require.Nil(t, req.checkInvariants(now))
	})

	t.Run("past deadline rejected", func(t *testing.T) {
		req := base
		req.Deadline = now.AddDate(0, 0, -1)
		err := req.checkInvariants(now)
		require.NotNil(t, err)
		assert.Contains(t, err.Fields, "deadline")
	})

	t.Run("deadline exactly now rejected", func(t *testing.T) {
		req := base
		req.Deadline = now
		err := req.checkInvariants(now)
		require.NotNil(t, err)
		assert.Contains(t, err.Fields, "deadline")
	})

	t.Run("inverted budget rejected", func(t *testing.T) {
		req := base
		req.BudgetMin = 500
		req.BudgetMax = 100
		err := req.checkInvariants(now)
		require.NotNil(t, err)
		assert.Contains(t, err.Fields, "budget_min")
	})

	t.Run("equal budgets allowed", func(t *testing.T) {
		req := base
		req.BudgetMin = 200
		req.BudgetMax = 200
		require.Nil(t, req.checkInvariants(now))
	})

	t.Run("both violations reported together", func(t *testing.T) {
		req := base
		req.Deadline = now.AddDate(0, 0, -1)
		req.BudgetMin = 500
		req.BudgetMax = 100
		err := req.checkInvariants(now)
		require.NotNil(t, err)
		assert.Len(t, err.Fields, 2)
	})
}
