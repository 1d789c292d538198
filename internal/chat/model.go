package chat

import "time"

// Chat is a job-scoped conversation between the client and one freelancer.
type Chat struct {
	ID           string    `json:"id"`
	JobID        string    `json:"job_id"`
	ClientID     string    `json:"client_id"`
	FreelancerID string    `json:"freelancer_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Message struct {
	ID          string       `json:"id"`
	ChatID      string       `json:"chat_id"`
	SenderID    string       `json:"sender_id"`
	Content     string       `json:"content"`
	IsRead      bool         `json:"is_read"`
	ReadAt      *time.Time   `json:"read_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	FileSize     int    `json:"file_size"`
	ContentType  string `json:"content_type"`
}
