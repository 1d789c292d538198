package alerts

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// ListNotifications - the caller's notifications, newest first.
func ListNotifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id::text, type, title, COALESCE(body, ''), reference::text, created_at, read_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 100
	`, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	items := []echo.Map{}
	for rows.Next() {
		var id, ntype, title, body string
		var reference *string
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&id, &ntype, &title, &body, &reference, &createdAt, &readAt); err != nil {
			return apperr.JSON(c, err)
		}
		item := echo.Map{
			"id":         id,
			"type":       ntype,
			"title":      title,
			"body":       body,
			"reference":  reference,
			"created_at": createdAt.UTC().Format(time.RFC3339),
			"read_at":    nil,
		}
		if readAt != nil {
			item["read_at"] = readAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// MarkNotificationRead - marks one of the caller's notifications read.
func MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	nid := c.Param("id")
	if nid == "" {
		return apperr.JSON(c, apperr.Validation("missing notification id"))
	}

	ct, err := db.Conn.Exec(context.Background(), `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, nid, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.JSON(c, apperr.NotFound("notification not found or already read"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// MarkAllRead - marks every unread notification of the caller read.
func MarkAllRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ct, err := db.Conn.Exec(context.Background(), `
		UPDATE notifications SET read_at = NOW()
		WHERE user_id = $1 AND read_at IS NULL
	`, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"marked_read": ct.RowsAffected()})
}

// UnreadCount - number of unread notifications for the caller.
func UnreadCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var count int
	err := db.Conn.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID,
	).Scan(&count)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// CreateNotification inserts an in-app notification row.
func CreateNotification(userID, ntype, title, body string, reference *string, metadataJSON *string) error {
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO notifications (user_id, type, title, body, reference, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, ntype, title, body, reference, metadataJSON)
	return err
}
