package offers

import "time"

// Status is an offer lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

const (
	PaymentFixed  = "fixed"
	PaymentHourly = "hourly"
)

type Offer struct {
	ID           string    `json:"id"`
	JobID        string    `json:"job_id"`
	FreelancerID string    `json:"freelancer_id"`
	ChatID       string    `json:"chat_id"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description"`
	DeliveryTime int       `json:"delivery_time"`
	PaymentType  string    `json:"payment_type"`
	Amount       float64   `json:"amount"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateOfferRequest is the payload for bidding on a job.
type CreateOfferRequest struct {
	JobID        string  `json:"job_id" validate:"required"`
	Title        string  `json:"title" validate:"max=200"`
	Description  string  `json:"description" validate:"required"`
	DeliveryTime int     `json:"delivery_time" validate:"required,gt=0"`
	PaymentType  string  `json:"payment_type" validate:"omitempty,oneof=fixed hourly"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}
