package offers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/chat"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/jobs"
)

// CreateOffer - freelancer bids on a job. Ensures a chat between the job's
// client and the freelancer exists and links the offer to it; the unique
// (job, freelancer) constraint backs the one-offer-per-pair rule.
func CreateOffer(c echo.Context) error {
	freelancerID, ok := c.Get("user_id").(string)
	if !ok || freelancerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(CreateOfferRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}
	if req.PaymentType == "" {
		req.PaymentType = PaymentFixed
	}

	ctx := context.Background()

	var clientID string
	var jobStatus jobs.Status
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id, status FROM jobs WHERE id = $1`, req.JobID,
	).Scan(&clientID, &jobStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("job not found"))
		}
		return apperr.JSON(c, err)
	}

	if clientID == freelancerID {
		return apperr.JSON(c, apperr.Validation("cannot submit an offer on your own job"))
	}
	if !Offerable(jobStatus) {
		return apperr.JSON(c, apperr.State("job is not accepting offers"))
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	// Re-read under a share lock: a concurrent accept holds the job row
	// FOR UPDATE, so this blocks until it commits and cannot insert a
	// pending offer on a job that just closed.
	err = tx.QueryRow(ctx,
		`SELECT status FROM jobs WHERE id = $1 FOR SHARE`, req.JobID).Scan(&jobStatus)
	if err != nil {
		return apperr.JSON(c, err)
	}
	if !Offerable(jobStatus) {
		return apperr.JSON(c, apperr.State("job is not accepting offers"))
	}

	chatID, err := chat.GetOrCreate(ctx, tx, req.JobID, clientID, freelancerID)
	if err != nil {
		return apperr.JSON(c, err)
	}

	offer := Offer{
		ID:           uuid.New().String(),
		JobID:        req.JobID,
		FreelancerID: freelancerID,
		ChatID:       chatID,
		Title:        req.Title,
		Description:  req.Description,
		DeliveryTime: req.DeliveryTime,
		PaymentType:  req.PaymentType,
		Amount:       req.Amount,
		Status:       StatusPending,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO offers (id, job_id, freelancer_id, chat_id, title, description,
			delivery_time, payment_type, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, offer.ID, req.JobID, freelancerID, chatID, req.Title, req.Description,
		req.DeliveryTime, req.PaymentType, req.Amount, string(StatusPending),
	).Scan(&offer.CreatedAt, &offer.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.JSON(c, apperr.Conflict("you already have an offer on this job"))
		}
		return apperr.JSON(c, err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET offers_count = offers_count + 1, updated_at = NOW() WHERE id = $1`, req.JobID)
	if err != nil {
		return apperr.JSON(c, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	_ = alerts.EnqueueOfferReceived(offer.ID, req.JobID, clientID, freelancerID, req.Amount)

	return c.JSON(http.StatusCreated, offer)
}
