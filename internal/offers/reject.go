package offers

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// RejectOffer - owning client turns an offer down. No other side effects.
func RejectOffer(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	offerID := c.Param("id")
	if offerID == "" {
		return apperr.JSON(c, apperr.Validation("missing offer id"))
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	var jobID, freelancerID string
	var offerStatus Status
	err = tx.QueryRow(ctx,
		`SELECT job_id, freelancer_id, status FROM offers WHERE id = $1 FOR UPDATE`,
		offerID).Scan(&jobID, &freelancerID, &offerStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("offer not found"))
		}
		return apperr.JSON(c, err)
	}

	var clientID, jobTitle string
	err = tx.QueryRow(ctx,
		`SELECT client_id, title FROM jobs WHERE id = $1`, jobID,
	).Scan(&clientID, &jobTitle)
	if err != nil {
		return apperr.JSON(c, err)
	}
	if clientID != callerID {
		return apperr.JSON(c, apperr.Permission("only the job owner can reject offers"))
	}
	if guard := RejectGuard(offerStatus); guard != nil {
		return apperr.JSON(c, guard)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE offers SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(StatusRejected), offerID); err != nil {
		return apperr.JSON(c, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	_ = alerts.EnqueueOfferRejected(offerID, jobID, jobTitle, freelancerID)

	return c.JSON(http.StatusOK, echo.Map{"message": "Offer rejected", "offer_id": offerID})
}
