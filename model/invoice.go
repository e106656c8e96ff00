// model/invoice.go
package model

import "time"

type InvoiceLine struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Invoice carries a rental subtotal line plus a tax line. DocumentURL
// stays nil until the render service has produced the document.
type Invoice struct {
	ID            int64         `json:"id"`
	ReservationID int64         `json:"reservation_id"`
	UserID        int64         `json:"user_id"`
	EmittedAt     time.Time     `json:"emitted_at"`
	Total         float64       `json:"total"`
	Lines         []InvoiceLine `json:"lines,omitempty"`
	DocumentURL   *string       `json:"document_url,omitempty"`
}
