package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a bearer token.
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}

	var (
		userID   string
		password string
		role     string
	)
	err := db.Conn.QueryRow(context.Background(), `
		SELECT id, password, role FROM users WHERE email = $1
	`, req.Email).Scan(&userID, &password, &role)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	signed, err := IssueToken(userID, user.Role(role))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: signed})
}
