package jobs

import (
	"time"

	"github.com/gigbridge/gigbridge/internal/apperr"
)

// Status is a job lifecycle state.
type Status string

const (
	StatusPendingRegistration Status = "pending_registration"
	StatusOpen                Status = "open"
	StatusClosed              Status = "closed"
	StatusInProgress          Status = "in_progress"
	StatusCompleted           Status = "completed"
	StatusCancelled           Status = "cancelled"
)

// Valid reports whether s is a recognized status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingRegistration, StatusOpen, StatusClosed,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Assignment type values accepted for a job posting.
const (
	TypeAcademicWriting = "academic_writing"
	TypeProgramming     = "programming"
	TypeDesign          = "design"
	TypeMarketing       = "marketing"
	TypeBusiness        = "business"
	TypeOther           = "other"
)

type Job struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	AssignmentType string    `json:"assignment_type"`
	Subject        string    `json:"subject"`
	Deadline       time.Time `json:"deadline"`
	Pages          int       `json:"pages"`
	Urgency        string    `json:"urgency"`
	BudgetMin      float64   `json:"budget_min"`
	BudgetMax      float64   `json:"budget_max"`
	Instructions   string    `json:"instructions,omitempty"`
	SkillsRequired []string  `json:"skills_required"`
	Status         Status    `json:"status"`
	ViewsCount     int       `json:"views_count"`
	OffersCount    int       `json:"offers_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateJobRequest is the payload for posting a job.
type CreateJobRequest struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description" validate:"required"`
	AssignmentType string    `json:"assignment_type" validate:"required,oneof=academic_writing programming design marketing business other"`
	Subject        string    `json:"subject" validate:"required,max=100"`
	Deadline       time.Time `json:"deadline" validate:"required"`
	Pages          int       `json:"pages"`
	Urgency        string    `json:"urgency" validate:"omitempty,oneof=low medium high urgent"`
	BudgetMin      float64   `json:"budget_min" validate:"required,gt=0"`
	BudgetMax      float64   `json:"budget_max" validate:"required,gt=0"`
	Instructions   string    `json:"instructions"`
	SkillsRequired []string  `json:"skills_required"`
}

// checkInvariants applies the rules the validator tags cannot express:
// deadline strictly in the future and budget_min <= budget_max.
func (r *CreateJobRequest) checkInvariants(now time.Time) *apperr.Error {
	fields := map[string]string{}
	if !r.Deadline.After(now) {
		fields["deadline"] = "must be in the future"
	}
	if r.BudgetMin > r.BudgetMax {
		fields["budget_min"] = "must not exceed budget_max"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields("validation failed", fields)
	}
	return nil
}
