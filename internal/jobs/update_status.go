package jobs

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/user"
)

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus - owning client moves the job through the transition table.
func UpdateStatus(c echo.Context) error {
	clientID, ok := c.Get("user_id").(string)
	if !ok || clientID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID := c.Param("id")
	if jobID == "" {
		return apperr.JSON(c, apperr.Validation("missing job id"))
	}

	req := new(updateStatusRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}
	next := Status(req.Status)
	if !next.Valid() {
		return apperr.JSON(c, apperr.Validation("invalid status value"))
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	var ownerID string
	var current Status
	err = tx.QueryRow(ctx,
		`SELECT client_id, status FROM jobs WHERE id = $1 FOR UPDATE`, jobID,
	).Scan(&ownerID, &current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("job not found"))
		}
		return apperr.JSON(c, err)
	}

	role, _ := c.Get("role").(string)
	if ownerID != clientID && user.Role(role) != user.RoleAdmin {
		return apperr.JSON(c, apperr.Permission("only the job owner can change its status"))
	}
	if !CanTransition(current, next) {
		return apperr.JSON(c, apperr.State("cannot move job from "+string(current)+" to "+string(next)))
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`, string(next), jobID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	job, err := scanJob(db.Conn.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Job status updated successfully",
		"job":     job,
	})
}
