package chat

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// ListChats - conversations the caller participates in, with the job title
// and the caller's unread count per chat.
func ListChats(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT ch.id, ch.job_id, j.title, ch.client_id, ch.freelancer_id, ch.is_active, ch.created_at,
			(SELECT COUNT(*) FROM messages m
			 WHERE m.chat_id = ch.id AND m.sender_id <> $1 AND NOT m.is_read) AS unread
		FROM chats ch
		JOIN jobs j ON j.id = ch.job_id
		WHERE ch.client_id = $1 OR ch.freelancer_id = $1
		ORDER BY ch.created_at DESC
	`, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	items := []echo.Map{}
	for rows.Next() {
		var ch Chat
		var jobTitle string
		var unread int
		if err := rows.Scan(&ch.ID, &ch.JobID, &jobTitle, &ch.ClientID,
			&ch.FreelancerID, &ch.IsActive, &ch.CreatedAt, &unread); err != nil {
			return apperr.JSON(c, err)
		}
		items = append(items, echo.Map{
			"id":            ch.ID,
			"job_id":        ch.JobID,
			"job_title":     jobTitle,
			"client_id":     ch.ClientID,
			"freelancer_id": ch.FreelancerID,
			"is_active":     ch.IsActive,
			"created_at":    ch.CreatedAt,
			"unread_count":  unread,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"chats": items})
}

type createChatRequest struct {
	JobID string `json:"job_id" validate:"required"`
}

// CreateChat - a freelancer opens (or re-opens) the conversation for a job.
func CreateChat(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(createChatRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}

	ctx := context.Background()
	var clientID string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id FROM jobs WHERE id = $1`, req.JobID).Scan(&clientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("job not found"))
		}
		return apperr.JSON(c, err)
	}
	if clientID == userID {
		return apperr.JSON(c, apperr.Validation("cannot open a chat on your own job"))
	}

	chatID, err := GetOrCreate(ctx, db.Conn, req.JobID, clientID, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"chat_id": chatID})
}

type attachmentPayload struct {
	OriginalName string `json:"original_name" validate:"required"`
	FileSize     int    `json:"file_size"`
	ContentType  string `json:"content_type"`
}

type sendMessageRequest struct {
	Content     string              `json:"content" validate:"required"`
	Attachments []attachmentPayload `json:"attachments"`
}

// SendMessage - either participant posts a message. Attachment persistence
// is best-effort: a failed attachment save is logged and the message is
// still returned.
func SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	chatID := c.Param("id")
	if chatID == "" {
		return apperr.JSON(c, apperr.Validation("missing chat id"))
	}

	req := new(sendMessageRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}

	ctx := context.Background()
	var clientID, freelancerID string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id, freelancer_id FROM chats WHERE id = $1`, chatID,
	).Scan(&clientID, &freelancerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("chat not found"))
		}
		return apperr.JSON(c, err)
	}

	var recipientID string
	switch userID {
	case clientID:
		recipientID = freelancerID
	case freelancerID:
		recipientID = clientID
	default:
		return apperr.JSON(c, apperr.Permission("not a participant in this chat"))
	}

	msg := Message{
		ID:       uuid.New().String(),
		ChatID:   chatID,
		SenderID: userID,
		Content:  req.Content,
	}
	err = db.Conn.QueryRow(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, content)
		VALUES ($1, $2, $3, $4) RETURNING created_at
	`, msg.ID, chatID, userID, req.Content).Scan(&msg.CreatedAt)
	if err != nil {
		return apperr.JSON(c, err)
	}

	for _, a := range req.Attachments {
		att := Attachment{
			ID:           uuid.New().String(),
			OriginalName: a.OriginalName,
			FileSize:     a.FileSize,
			ContentType:  a.ContentType,
		}
		_, err := db.Conn.Exec(ctx, `
			INSERT INTO message_attachments (id, message_id, original_name, file_size, content_type)
			VALUES ($1, $2, $3, $4, $5)
		`, att.ID, msg.ID, a.OriginalName, a.FileSize, a.ContentType)
		if err != nil {
			// Message already stands; degrade instead of failing the send.
			slog.Error("attachment save failed", "message_id", msg.ID, "name", a.OriginalName, "err", err)
			continue
		}
		msg.Attachments = append(msg.Attachments, att)
	}

	BroadcastNewMessage(chatID, echo.Map{
		"id":         msg.ID,
		"chat_id":    chatID,
		"sender_id":  userID,
		"content":    req.Content,
		"created_at": msg.CreatedAt.UTC().Format(time.RFC3339),
	})

	_ = alerts.EnqueueMessageNew(chatID, msg.ID, userID, recipientID, req.Content)

	return c.JSON(http.StatusCreated, msg)
}

// ListMessages - full history for one chat, oldest first.
func ListMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	chatID := c.Param("id")
	if chatID == "" {
		return apperr.JSON(c, apperr.Validation("missing chat id"))
	}

	ctx := context.Background()
	var clientID, freelancerID string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id, freelancer_id FROM chats WHERE id = $1`, chatID,
	).Scan(&clientID, &freelancerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("chat not found"))
		}
		return apperr.JSON(c, err)
	}
	if userID != clientID && userID != freelancerID {
		return apperr.JSON(c, apperr.Permission("not a participant in this chat"))
	}

	rows, err := db.Conn.Query(ctx, `
		SELECT m.id, m.chat_id, m.sender_id, m.content, m.is_read, m.created_at
		FROM messages m WHERE m.chat_id = $1
		ORDER BY m.created_at ASC
	`, chatID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return apperr.JSON(c, err)
		}
		msgs = append(msgs, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// MarkRead - marks every message addressed to the caller in this chat read.
func MarkRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	chatID := c.Param("id")
	if chatID == "" {
		return apperr.JSON(c, apperr.Validation("missing chat id"))
	}

	ctx := context.Background()
	var clientID, freelancerID string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id, freelancer_id FROM chats WHERE id = $1`, chatID,
	).Scan(&clientID, &freelancerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("chat not found"))
		}
		return apperr.JSON(c, err)
	}
	if userID != clientID && userID != freelancerID {
		return apperr.JSON(c, apperr.Permission("not a participant in this chat"))
	}

	ct, err := db.Conn.Exec(ctx, `
		UPDATE messages SET is_read = TRUE, read_at = NOW()
		WHERE chat_id = $1 AND sender_id <> $2 AND NOT is_read
	`, chatID, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"marked_read": ct.RowsAffected()})
}

// UnreadCount - total unread messages addressed to the caller.
func UnreadCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var count int
	err := db.Conn.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM messages m
		JOIN chats ch ON ch.id = m.chat_id
		WHERE (ch.client_id = $1 OR ch.freelancer_id = $1)
		  AND m.sender_id <> $1 AND NOT m.is_read
	`, userID).Scan(&count)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}
