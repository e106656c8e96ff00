package reservation

import "time"

type CreateHoldReq struct {
	VehicleID int64  `json:"vehicle_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	TTLSec    int    `json:"ttl_sec"`
}

type CreateFromHoldReq struct {
	HoldID string `json:"hold_id" validate:"required"`
	UserID int64  `json:"user_id" validate:"required,gt=0"`
}

type UpdateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// UpdateReq carries dates only. Nights and total are recomputed server
// side and the status goes through the status endpoint.
type UpdateReq struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
