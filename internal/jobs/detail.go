package jobs

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// GetJob - public job detail. Records a view once per viewer (by user id,
// or by ip for anonymous callers) and bumps the counter on first sight.
func GetJob(c echo.Context) error {
	jobID := c.Param("id")
	if jobID == "" {
		return apperr.JSON(c, apperr.Validation("missing job id"))
	}

	ctx := context.Background()
	job, err := scanJob(db.Conn.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("job not found"))
		}
		return apperr.JSON(c, err)
	}

	viewerID, _ := c.Get("user_id").(string)
	if recordView(ctx, jobID, viewerID, c.RealIP()) {
		job.ViewsCount++
	}

	return c.JSON(http.StatusOK, job)
}

// recordView inserts the (job, viewer) row and reports whether this viewer
// was seen for the first time. The unique indexes make it idempotent.
func recordView(ctx context.Context, jobID, viewerID, ip string) bool {
	var err error
	var inserted bool
	if viewerID != "" {
		ct, e := db.Conn.Exec(ctx, `
			INSERT INTO job_views (id, job_id, user_id)
			VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			uuid.New().String(), jobID, viewerID)
		err, inserted = e, ct.RowsAffected() > 0
	} else {
		ct, e := db.Conn.Exec(ctx, `
			INSERT INTO job_views (id, job_id, ip_address)
			VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			uuid.New().String(), jobID, ip)
		err, inserted = e, ct.RowsAffected() > 0
	}
	if err != nil || !inserted {
		return false
	}

	_, _ = db.Conn.Exec(ctx, `UPDATE jobs SET views_count = views_count + 1 WHERE id = $1`, jobID)
	return true
}
