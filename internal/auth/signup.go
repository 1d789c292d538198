package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/user"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=client freelancer"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Signup registers a client or freelancer account and returns a token.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.JSON(c, err)
	}

	ctx := context.Background()
	userID := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, password, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, req.Name, req.Email, req.Phone, string(hashed), req.Role)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.JSON(c, apperr.Conflict("email already registered"))
		}
		return apperr.JSON(c, err)
	}

	signed, err := IssueToken(userID, user.Role(req.Role))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, TokenResponse{Token: signed})
}

// IssueToken signs a 72h HS256 bearer token for the given account.
func IssueToken(userID string, role user.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
