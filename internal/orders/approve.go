package orders

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/alerts"
	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/payments"
)

type approveRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// Approve - client accepts submitted work. The order completes and its
// payment settles in the same transaction.
func Approve(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("id")
	if orderID == "" {
		return apperr.JSON(c, apperr.Validation("missing order id"))
	}

	req := new(approveRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}
	if !RatingValid(req.Rating) {
		return apperr.JSON(c, apperr.Validation("rating must be between 1 and 5"))
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	var clientID, freelancerID, title string
	var status Status
	var amount float64
	err = tx.QueryRow(ctx, `
		SELECT client_id, freelancer_id, title, status, amount
		FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&clientID, &freelancerID, &title, &status, &amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("order not found"))
		}
		return apperr.JSON(c, err)
	}

	if clientID != callerID {
		return apperr.JSON(c, apperr.Permission("only the order's client can approve work"))
	}
	if guard := ApproveGuard(status); guard != nil {
		return apperr.JSON(c, guard)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = $1, completed_at = NOW(), updated_at = NOW(),
			client_rating = $2, client_feedback = $3
		WHERE id = $4
	`, string(StatusCompleted), req.Rating, req.Feedback, orderID)
	if err != nil {
		return apperr.JSON(c, err)
	}

	if err := payments.SettleForOrder(ctx, tx, orderID); err != nil {
		return apperr.JSON(c, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	_ = alerts.EnqueueOrderCompleted(orderID, title, freelancerID, amount)

	return c.JSON(http.StatusOK, echo.Map{"message": "Order completed", "order_id": orderID})
}
