package orders

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

// MyOrders - orders where the caller is the client or the freelancer.
func MyOrders(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+orderColumns+` FROM orders
		 WHERE client_id = $1 OR freelancer_id = $1 ORDER BY created_at DESC`, callerID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	items := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return apperr.JSON(c, err)
		}
		items = append(items, *o)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": items})
}

// GetOrder - order detail for its parties.
func GetOrder(c echo.Context) error {
	callerID, ok := c.Get("user_id").(string)
	if !ok || callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := c.Param("id")
	if orderID == "" {
		return apperr.JSON(c, apperr.Validation("missing order id"))
	}

	o, err := scanOrder(db.Conn.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.JSON(c, apperr.NotFound("order not found"))
		}
		return apperr.JSON(c, err)
	}
	if callerID != o.ClientID && callerID != o.FreelancerID {
		return apperr.JSON(c, apperr.Permission("not a party to this order"))
	}
	return c.JSON(http.StatusOK, o)
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.JobID, &o.OfferID, &o.ClientID, &o.FreelancerID,
		&o.Title, &o.Description, &o.DeliveryTime, &o.Amount, &o.Status,
		&o.DueDate, &o.SubmittedAt, &o.CompletedAt, &o.RevisionCount,
		&o.MaxRevisions, &o.ClientRating, &o.ClientFeedback,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
