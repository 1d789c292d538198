package user

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// GetPublicProfile - public view of an account, no email or phone.
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return apperr.JSON(c, apperr.Validation("missing user id"))
	}

	var (
		id        string
		name      string
		role      string
		createdAt time.Time
	)
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, name, role, created_at FROM users WHERE id = $1`, userID,
	).Scan(&id, &name, &role, &createdAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("user not found"))
		}
		return apperr.JSON(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":         id,
		"name":       name,
		"role":       role,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	})
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateProfile - partial update; empty fields keep their current value.
func UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}

	_, err := db.Conn.Exec(c.Request().Context(), `
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
		    phone = COALESCE(NULLIF($2, ''), phone)
		WHERE id = $3
	`, req.Name, req.Phone, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}
