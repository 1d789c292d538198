package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// CreateJob - client posts a new job, immediately open for offers.
func CreateJob(c echo.Context) error {
	clientID, ok := c.Get("user_id").(string)
	if !ok || clientID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(CreateJobRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}
	if err := req.checkInvariants(time.Now()); err != nil {
		return apperr.JSON(c, err)
	}

	job, err := insertJob(context.Background(), clientID, req, StatusOpen)
	if err != nil {
		return apperr.JSON(c, err)
	}

	// Post-commit fan-out; never blocks or fails the request.
	_ = alerts.EnqueueJobOpened(job.ID, job.Title, clientID)

	return c.JSON(http.StatusCreated, job)
}

// insertJob writes the job row and returns the created record.
func insertJob(ctx context.Context, clientID string, req *CreateJobRequest, status Status) (*Job, error) {
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
		return nil, err
	}

	job := &Job{
		ID:             uuid.New().String(),
		ClientID:       clientID,
		Title:          req.Title,
		Description:    req.Description,
		AssignmentType: req.AssignmentType,
		Subject:        req.Subject,
		Deadline:       req.Deadline,
		Pages:          req.Pages,
		Urgency:        req.Urgency,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Instructions:   req.Instructions,
		SkillsRequired: req.SkillsRequired,
		Status:         status,
	}

	err = db.Conn.QueryRow(ctx, `
		INSERT INTO jobs (id, client_id, title, description, assignment_type, subject,
			deadline, pages, urgency, budget_min, budget_max, instructions, skills_required, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`, job.ID, clientID, req.Title, req.Description, req.AssignmentType, req.Subject,
		req.Deadline, req.Pages, req.Urgency, req.BudgetMin, req.BudgetMax,
		req.Instructions, skills, string(status),
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return job, nil
}
