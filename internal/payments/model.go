package payments

import "time"

// Status is a ledger entry state.
type Status string

const (
	StatusPending           Status = "pending"
	StatusInitiated         Status = "initiated"
	StatusProcessing        Status = "processing"
	StatusPaid              Status = "paid"
	StatusFailed            Status = "failed"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
)

const (
	TypeOrder  = "order"
	TypeRefund = "refund"
)

// PlatformFeeRate is the marketplace cut withheld from the freelancer.
const PlatformFeeRate = 0.10

type Payment struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"order_id"`
	PayerID          string     `json:"payer_id"`
	PayeeID          string     `json:"payee_id"`
	Amount           float64    `json:"amount"`
	PlatformFee      float64    `json:"platform_fee"`
	FreelancerAmount float64    `json:"freelancer_amount"`
	PaymentType      string     `json:"payment_type"`
	Status           Status     `json:"status"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
