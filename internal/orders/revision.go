package orders

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

type revisionRequest struct {
	Notes string `json:"notes" validate:"required"`
}

// RequestRevision - client sends submitted work back. Notes must carry
// enough substance and the revision cap is enforced.
func RequestRevision(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("id")
	if orderID == "" {
		return apperr.JSON(c, apperr.Validation("missing order id"))
	}

	req := new(revisionRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}
	if len(strings.TrimSpace(req.Notes)) < revisionNotesMin {
		return apperr.JSON(c, apperr.ValidationFields("validation failed",
			map[string]string{"notes": "must be at least 10 characters"}))
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	var clientID, freelancerID, title string
	var status Status
	var revisionCount, maxRevisions int
	err = tx.QueryRow(ctx, `
		SELECT client_id, freelancer_id, title, status, revision_count, max_revisions
		FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&clientID, &freelancerID, &title, &status, &revisionCount, &maxRevisions)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("order not found"))
		}
		return apperr.JSON(c, err)
	}

	if clientID != callerID {
		return apperr.JSON(c, apperr.Permission("only the order's client can request revisions"))
	}
	if guard := RevisionGuard(status, revisionCount, maxRevisions); guard != nil {
		return apperr.JSON(c, guard)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_revisions (id, order_id, requested_by, notes)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), orderID, callerID, req.Notes)
	if err != nil {
		return apperr.JSON(c, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = $1, revision_count = revision_count + 1, updated_at = NOW()
		WHERE id = $2
	`, string(StatusRevisionRequested), orderID)
	if err != nil {
		return apperr.JSON(c, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	_ = alerts.EnqueueRevisionRequested(orderID, title, freelancerID)

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Revision requested",
		"order_id":       orderID,
		"revision_count": revisionCount + 1,
	})
}
