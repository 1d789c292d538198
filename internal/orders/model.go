package orders

import "time"

// Status is an order fulfillment state.
type Status string

const (
	StatusActive            Status = "active"
	StatusSubmitted         Status = "submitted"
	StatusRevisionRequested Status = "revision_requested"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
	StatusDisputed          Status = "disputed"
)

type Order struct {
	ID             string     `json:"id"`
	JobID          string     `json:"job_id"`
	OfferID        string     `json:"offer_id"`
	ClientID       string     `json:"client_id"`
	FreelancerID   string     `json:"freelancer_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DeliveryTime   int        `json:"delivery_time"`
	Amount         float64    `json:"amount"`
	Status         Status     `json:"status"`
	DueDate        time.Time  `json:"due_date"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	RevisionCount  int        `json:"revision_count"`
	MaxRevisions   int        `json:"max_revisions"`
	ClientRating   *int       `json:"client_rating,omitempty"`
	ClientFeedback string     `json:"client_feedback,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

const orderColumns = `id, job_id, offer_id, client_id, freelancer_id, title,
	description, delivery_time, amount, status, due_date, submitted_at,
	completed_at, revision_count, max_revisions, client_rating, client_feedback,
	created_at, updated_at`
