package offers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/jobs"
	"github.com/gigbridge/gigbridge/internal/payments"
)

// AcceptOffer - owning client accepts an offer. One transaction, with the
// job and offer rows locked: offer accepted, job closed, sibling pending
// offers rejected, order and pending payment created. Of two concurrent
// accepts on the same job exactly one commits; the other sees the job or
// offer already moved on and fails the state guard.
func AcceptOffer(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	offerID := c.Param("id")
	if offerID == "" {
		return apperr.JSON(c, apperr.Validation("missing offer id"))
	}

	ctx := context.Background()

	// Resolve the job before taking locks; lock order is job then offer so
	// competing accepts on the same job serialize on the parent row.
	var jobID string
	err := db.Conn.QueryRow(ctx,
		`SELECT job_id FROM offers WHERE id = $1`, offerID).Scan(&jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("offer not found"))
		}
		return apperr.JSON(c, err)
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	var clientID, jobTitle string
	var jobStatus jobs.Status
	err = tx.QueryRow(ctx,
		`SELECT client_id, title, status FROM jobs WHERE id = $1 FOR UPDATE`, jobID,
	).Scan(&clientID, &jobTitle, &jobStatus)
	if err != nil {
		return apperr.JSON(c, err)
	}
	if clientID != callerID {
		return apperr.JSON(c, apperr.Permission("only the job owner can accept offers"))
	}

	var offer Offer
	err = tx.QueryRow(ctx, `
		SELECT id, job_id, freelancer_id, title, description, delivery_time, amount, status
		FROM offers WHERE id = $1 FOR UPDATE
	`, offerID).Scan(&offer.ID, &offer.JobID, &offer.FreelancerID, &offer.Title,
		&offer.Description, &offer.DeliveryTime, &offer.Amount, &offer.Status)
	if err != nil {
		return apperr.JSON(c, err)
	}

	if guard := AcceptGuard(offer.Status, jobStatus); guard != nil {
		return apperr.JSON(c, guard)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE offers SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(StatusAccepted), offerID); err != nil {
		return apperr.JSON(c, err)
	}

	// Reject every competing pending offer, remembering who lost.
	rows, err := tx.Query(ctx, `
		UPDATE offers SET status = $1, updated_at = NOW()
		WHERE job_id = $2 AND id <> $3 AND status = $4
		RETURNING id, freelancer_id
	`, string(StatusRejected), jobID, offerID, string(StatusPending))
	if err != nil {
		return apperr.JSON(c, err)
	}
	type loser struct{ offerID, freelancerID string }
	var losers []loser
	for rows.Next() {
		var l loser
		if err := rows.Scan(&l.offerID, &l.freelancerID); err != nil {
			rows.Close()
			return apperr.JSON(c, err)
		}
		losers = append(losers, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperr.JSON(c, err)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(jobs.StatusClosed), jobID); err != nil {
		return apperr.JSON(c, err)
	}

	orderID := uuid.New().String()
	orderTitle := offer.Title
	if orderTitle == "" {
		orderTitle = jobTitle
	}
	dueDate := time.Now().AddDate(0, 0, offer.DeliveryTime)
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, job_id, offer_id, client_id, freelancer_id,
			title, description, delivery_time, amount, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10)
	`, orderID, jobID, offerID, clientID, offer.FreelancerID,
		orderTitle, offer.Description, offer.DeliveryTime, offer.Amount, dueDate)
	if err != nil {
		return apperr.JSON(c, err)
	}

	if err := payments.OpenLedgerEntry(ctx, tx, orderID, clientID, offer.FreelancerID, offer.Amount); err != nil {
		return apperr.JSON(c, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	_ = alerts.EnqueueOfferAccepted(offerID, jobID, jobTitle, offer.FreelancerID)
	for _, l := range losers {
		_ = alerts.EnqueueOfferRejected(l.offerID, jobID, jobTitle, l.freelancerID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Offer accepted",
		"offer_id": offerID,
		"order_id": orderID,
	})
}
