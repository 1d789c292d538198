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

// Cancel - either party tears the engagement down before it completes.
// A refund-intent entry is appended to the ledger in the same transaction.
func Cancel(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("id")
	if orderID == "" {
		return apperr.JSON(c, apperr.Validation("missing order id"))
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

	if callerID != clientID && callerID != freelancerID {
		return apperr.JSON(c, apperr.Permission("not a party to this order"))
	}
	if guard := CancelGuard(status); guard != nil {
		return apperr.JSON(c, guard)
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(StatusCancelled), orderID)
	if err != nil {
		return apperr.JSON(c, err)
	}

	if err := payments.RecordRefundIntent(ctx, tx, orderID, clientID, freelancerID, amount); err != nil {
		return apperr.JSON(c, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	// Tell the party who didn't act.
	notify := clientID
	if callerID == clientID {
		notify = freelancerID
	}
	_ = alerts.EnqueueOrderCancelled(orderID, title, notify, callerID)

	return c.JSON(http.StatusOK, echo.Map{"message": "Order cancelled", "order_id": orderID})
}
