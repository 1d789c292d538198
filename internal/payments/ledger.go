package payments

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gigbridge/gigbridge/internal/apperr"
)

// Execer is satisfied by both *pgxpool.Pool and pgx.Tx so ledger writes can
// join the caller's transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Fee splits an order amount into the platform cut and the freelancer share,
// rounded to cents.
func Fee(amount float64) (platformFee, freelancerAmount float64) {
	platformFee = math.Round(amount*PlatformFeeRate*100) / 100
	return platformFee, math.Round((amount-platformFee)*100) / 100
}

// OpenLedgerEntry records the pending payment row for a freshly created
// order. Called inside the offer-acceptance transaction.
func OpenLedgerEntry(ctx context.Context, q Execer, orderID, payerID, payeeID string, amount float64) error {
	fee, net := Fee(amount)
	_, err := q.Exec(ctx, `
		INSERT INTO payments (id, order_id, payer_id, payee_id, amount,
			platform_fee, freelancer_amount, payment_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.New().String(), orderID, payerID, payeeID, amount, fee, net,
		TypeOrder, string(StatusPending))
	return err
}

// SettleForOrder marks the order's payment paid. Called inside the order
// approval transaction so the completed order and the settled payment land
// together.
func SettleForOrder(ctx context.Context, q Execer, orderID string) error {
	_, err := q.Exec(ctx, `
		UPDATE payments SET status = $1, paid_at = NOW(), updated_at = NOW()
		WHERE order_id = $2 AND payment_type = $3
	`, string(StatusPaid), orderID, TypeOrder)
	return err
}

// RecordRefundIntent appends a pending refund entry for a cancelled order.
func RecordRefundIntent(ctx context.Context, q Execer, orderID, payerID, payeeID string, amount float64) error {
	// Refund flows back to the client; no platform cut on the way out.
	_, err := q.Exec(ctx, `
		INSERT INTO payments (id, order_id, payer_id, payee_id, amount,
			platform_fee, freelancer_amount, payment_type, status)
		VALUES ($1, $2, $3, $4, $5, 0, $5, $6, $7)
	`, uuid.New().String(), orderID, payeeID, payerID, amount,
		TypeRefund, string(StatusPending))
	return err
}

// ProcessTransition gates the admin release/refund actions on the entry's
// current status, escrow-style.
func ProcessTransition(current Status, action string) (Status, *apperr.Error) {
	switch action {
	case "release":
		if current != StatusPending && current != StatusProcessing {
			return current, apperr.State("payment cannot be released from status " + string(current))
		}
		return StatusPaid, nil
	case "refund":
		if current != StatusPending && current != StatusPaid {
			return current, apperr.State("payment cannot be refunded from status " + string(current))
		}
		return StatusRefunded, nil
	}
	return current, apperr.Validation("action must be release or refund")
}

// scanPayment reads one ledger row.
func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.PayerID, &p.PayeeID, &p.Amount,
		&p.PlatformFee, &p.FreelancerAmount, &p.PaymentType, &p.Status,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
