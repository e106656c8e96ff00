// model/payment.go
package model

import "time"

type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentDeclined PaymentStatus = "DECLINED"
)

type Payment struct {
	ID            int64         `json:"id"`
	ReservationID int64         `json:"reservation_id"`
	Method        string        `json:"method"`
	Amount        float64       `json:"amount"`
	PaidAt        time.Time     `json:"paid_at"`
	ExternalRef   string        `json:"external_ref"`
	Status        PaymentStatus `json:"status"`
	PayerAccount  string        `json:"payer_account"`
	PayeeAccount  string        `json:"payee_account"`
}
