package payments

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/user"
)

const paymentColumns = `id, order_id, payer_id, payee_id, amount,
	platform_fee, freelancer_amount, payment_type, status, paid_at, created_at, updated_at`

// ListForOrder - the payment trail of an order, visible to its parties and admins.
func ListForOrder(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("order_id")
	if orderID == "" {
		return apperr.JSON(c, apperr.Validation("missing order id"))
	}

	ctx := context.Background()
	var clientID, freelancerID string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id, freelancer_id FROM orders WHERE id = $1`, orderID,
	).Scan(&clientID, &freelancerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("order not found"))
		}
		return apperr.JSON(c, err)
	}

	role, _ := c.Get("role").(string)
	if callerID != clientID && callerID != freelancerID && user.Role(role) != user.RoleAdmin {
		return apperr.JSON(c, apperr.Permission("not a party to this order"))
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	items := []Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return apperr.JSON(c, err)
		}
		items = append(items, *p)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": items})
}

type processRequest struct {
	Action string `json:"action" validate:"required,oneof=release refund"`
}

// Process - admin settles or refunds a ledger entry. Settlement itself is a
// stub; only the status trail is maintained.
func Process(c echo.Context) error {
	paymentID := c.Param("id")
	if paymentID == "" {
		return apperr.JSON(c, apperr.Validation("missing payment id"))
	}

	req := new(processRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return apperr.JSON(c, err)
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer tx.Rollback(ctx)

	var current Status
	err = tx.QueryRow(ctx,
		`SELECT status FROM payments WHERE id = $1 FOR UPDATE`, paymentID).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("payment not found"))
		}
		return apperr.JSON(c, err)
	}

	next, guard := ProcessTransition(current, req.Action)
	if guard != nil {
		return apperr.JSON(c, guard)
	}

	if next == StatusPaid {
		_, err = tx.Exec(ctx,
			`UPDATE payments SET status = $1, paid_at = NOW(), updated_at = NOW() WHERE id = $2`,
			string(next), paymentID)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`,
			string(next), paymentID)
	}
	if err != nil {
		return apperr.JSON(c, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.JSON(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"payment_id": paymentID, "status": next})
}
