package alerts

import "time"

// Task types, one per domain event the lifecycle emits.
const (
	TaskJobOpened         = "event:job_opened"
	TaskOfferReceived     = "event:offer_received"
	TaskOfferAccepted     = "event:offer_accepted"
	TaskOfferRejected     = "event:offer_rejected"
	TaskWorkSubmitted     = "event:work_submitted"
	TaskRevisionRequested = "event:revision_requested"
	TaskOrderCompleted    = "event:order_completed"
	TaskOrderCancelled    = "event:order_cancelled"
	TaskMessageNew        = "event:message_new"
)

// Notification types stored with each in-app row.
const (
	NotifyNewOffer          = "new_offer"
	NotifyNewJob            = "new_job"
	NotifyOfferAccepted     = "offer_accepted"
	NotifyOfferRejected     = "offer_rejected"
	NotifyWorkSubmitted     = "work_submitted"
	NotifyRevisionRequested = "revision_requested"
	NotifyOrderCompleted    = "order_completed"
	NotifyOrderCancelled    = "order_cancelled"
	NotifyNewMessage        = "new_message"
)

type JobOpenedPayload struct {
	JobID    string    `json:"job_id"`
	Title    string    `json:"title"`
	ClientID string    `json:"client_id"`
	SentAt   time.Time `json:"sent_at"`
}

type OfferReceivedPayload struct {
	OfferID      string    `json:"offer_id"`
	JobID        string    `json:"job_id"`
	ClientID     string    `json:"client_id"`
	FreelancerID string    `json:"freelancer_id"`
	Amount       float64   `json:"amount"`
	SentAt       time.Time `json:"sent_at"`
}

type OfferDecisionPayload struct {
	OfferID      string    `json:"offer_id"`
	JobID        string    `json:"job_id"`
	JobTitle     string    `json:"job_title"`
	FreelancerID string    `json:"freelancer_id"`
	SentAt       time.Time `json:"sent_at"`
}

type WorkSubmittedPayload struct {
	OrderID      string    `json:"order_id"`
	Title        string    `json:"title"`
	ClientID     string    `json:"client_id"`
	FreelancerID string    `json:"freelancer_id"`
	SentAt       time.Time `json:"sent_at"`
}

type RevisionRequestedPayload struct {
	OrderID      string    `json:"order_id"`
	Title        string    `json:"title"`
	FreelancerID string    `json:"freelancer_id"`
	SentAt       time.Time `json:"sent_at"`
}

type OrderCompletedPayload struct {
	OrderID      string    `json:"order_id"`
	Title        string    `json:"title"`
	FreelancerID string    `json:"freelancer_id"`
	Amount       float64   `json:"amount"`
	SentAt       time.Time `json:"sent_at"`
}

type OrderCancelledPayload struct {
	OrderID  string    `json:"order_id"`
	Title    string    `json:"title"`
	NotifyID string    `json:"notify_id"`
	ActorID  string    `json:"actor_id"`
	SentAt   time.Time `json:"sent_at"`
}

type MessageNewPayload struct {
	ChatID      string    `json:"chat_id"`
	MessageID   string    `json:"message_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
}
