package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/user"
)

// GuestSubmissionRequest bundles a new client account with their first job.
type GuestSubmissionRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
	CreateJobRequest
}

// GuestSubmission - unauthenticated visitors post a job and an account in
// one transaction; the job stays in pending_registration until the caller
// finishes signup.
func GuestSubmission(c echo.Context) error {
	req := new(GuestSubmissionRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}
	if err := req.checkInvariants(time.Now()); err != nil {
		return apperr.JSON(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.JSON(c, err)
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	userID := uuid.New().String()
	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, password, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, req.Name, req.Email, req.Phone, string(hashed), string(user.RoleClient))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.JSON(c, apperr.Conflict("user with this email already exists, please login instead"))
		}
		return apperr.JSON(c, err)
	}

	if req.Pages <= 0 {
		req.Pages = 1
	}
	if req.Urgency == "" {
		req.Urgency = "medium"
	}
	if req.SkillsRequired == nil {
		req.SkillsRequired = []string{}
	}
	skills, err := json.Marshal(req.SkillsRequired)
	if err != nil {
		return apperr.JSON(c, err)
	}

	jobID := uuid.New().String()
	_, err = tx.Exec(ctx, `
		INSERT INTO jobs (id, client_id, title, description, assignment_type, subject,
			deadline, pages, urgency, budget_min, budget_max, instructions, skills_required, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, jobID, userID, req.Title, req.Description, req.AssignmentType, req.Subject,
		req.Deadline, req.Pages, req.Urgency, req.BudgetMin, req.BudgetMax,
		req.Instructions, skills, string(StatusPendingRegistration))
	if err != nil {
		return apperr.JSON(c, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":                  "Job submitted successfully. Please complete your registration.",
		"job_id":                   jobID,
		"user_id":                  userID,
		"redirect_to_registration": true,
	})
}

// CompleteRegistration - flips the caller's pending_registration job to open.
func CompleteRegistration(c echo.Context) error {
	clientID, ok := c.Get("user_id").(string)
	if !ok || clientID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID := c.Param("id")
	if jobID == "" {
		return apperr.JSON(c, apperr.Validation("missing job id"))
	}

	ctx := context.Background()
	ct, err := db.Conn.Exec(ctx, `
		UPDATE jobs SET status = $1, updated_at = NOW()
		WHERE id = $2 AND client_id = $3 AND status = $4
	`, string(StatusOpen), jobID, clientID, string(StatusPendingRegistration))
	if err != nil {
		return apperr.JSON(c, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.JSON(c, apperr.NotFound("job not found or already processed"))
	}

	job, err := scanJob(db.Conn.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID))
	if err != nil {
		return apperr.JSON(c, err)
	}

	_ = alerts.EnqueueJobOpened(job.ID, job.Title, clientID)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Registration completed successfully. Your job is now live.",
		"job":     job,
	})
}
