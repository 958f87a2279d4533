package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodQRCode       PaymentMethod = "qr_code"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodQRCode:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

type Payment struct {
	ID              int64         `json:"id"`
	BookingID       int64         `json:"booking_id"`
	Method          PaymentMethod `json:"method"`
	Status          PaymentStatus `json:"status"`
	AmountCents     int64         `json:"amount_cents"`
	TransactionID   string        `json:"transaction_id"`
	TransactionDate time.Time     `json:"transaction_date"`
}
