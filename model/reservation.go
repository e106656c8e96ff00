// model/reservation.go
package model

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationRejected  ReservationStatus = "REJECTED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationFinalized ReservationStatus = "FINALIZED"
)

type Reservation struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	VehicleID int64             `json:"vehicle_id"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Nights    int64             `json:"nights"`
	Total     float64           `json:"total"`
	Status    ReservationStatus `json:"status"`
	HoldID    *string           `json:"hold_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type HoldStatus string

const (
	HoldActive   HoldStatus = "ACTIVE"
	HoldConsumed HoldStatus = "CONSUMED"
	HoldExpired  HoldStatus = "EXPIRED"
)

// Hold is a short-lived lock on a vehicle for a date range, taken
// between intent and commit on the two-phase reservation path.
type Hold struct {
	ID        string     `json:"id"`
	VehicleID int64      `json:"vehicle_id"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Status    HoldStatus `json:"status"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}
