package offers

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// ListForJob - offers on a job, visible only to the owning client.
func ListForJob(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID := c.Param("job_id")
	if jobID == "" {
		return apperr.JSON(c, apperr.Validation("missing job id"))
	}

	ctx := context.Background()
	var clientID string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id FROM jobs WHERE id = $1`, jobID).Scan(&clientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("job not found"))
		}
		return apperr.JSON(c, err)
	}
	if clientID != callerID {
		return apperr.JSON(c, apperr.Permission("only the job owner can view its offers"))
	}

	rows, err := db.Conn.Query(ctx, `
		SELECT id, job_id, freelancer_id, chat_id, title, description,
			delivery_time, payment_type, amount, status, created_at, updated_at
		FROM offers WHERE job_id = $1 ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	items := []Offer{}
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.JobID, &o.FreelancerID, &o.ChatID, &o.Title,
			&o.Description, &o.DeliveryTime, &o.PaymentType, &o.Amount, &o.Status,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return apperr.JSON(c, err)
		}
		items = append(items, o)
	}
	return c.JSON(http.StatusOK, echo.Map{"offers": items})
}
