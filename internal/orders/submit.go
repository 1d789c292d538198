package orders

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

type submitWorkRequest struct {
	SubmissionText string `json:"submission_text" validate:"required"`
	Notes          string `json:"notes"`
}

// SubmitWork - freelancer delivers work. Each delivery is appended to the
// submission history; the order moves to submitted.
func SubmitWork(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("id")
	if orderID == "" {
		return apperr.JSON(c, apperr.Validation("missing order id"))
	}

	req := new(submitWorkRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	var freelancerID, clientID, title string
	var status Status
	err = tx.QueryRow(ctx, `
		SELECT freelancer_id, client_id, title, status FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&freelancerID, &clientID, &title, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("order not found"))
		}
		return apperr.JSON(c, err)
	}

	if freelancerID != callerID {
		return apperr.JSON(c, apperr.Permission("only the order's freelancer can submit work"))
	}
	if guard := SubmitGuard(status); guard != nil {
		return apperr.JSON(c, guard)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_submissions (id, order_id, freelancer_id, submission_text, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), orderID, callerID, req.SubmissionText, req.Notes)
	if err != nil {
		return apperr.JSON(c, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = $1, submitted_at = NOW(), updated_at = NOW() WHERE id = $2
	`, string(StatusSubmitted), orderID)
	if err != nil {
		return apperr.JSON(c, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	_ = alerts.EnqueueWorkSubmitted(orderID, title, clientID, callerID)

	return c.JSON(http.StatusOK, echo.Map{"message": "Work submitted", "order_id": orderID})
}
