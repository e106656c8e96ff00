// model/vehicle.go
package model

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "AVAILABLE"
	VehicleRented      VehicleStatus = "RENTED"
	VehicleUnavailable VehicleStatus = "UNAVAILABLE"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
)

type Vehicle struct {
	ID           int64         `json:"id"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	Category     string        `json:"category"`
	Transmission string        `json:"transmission"`
	Capacity     int           `json:"capacity"`
	DailyPrice   float64       `json:"daily_price"`
	PromoPrice   *float64      `json:"promo_price,omitempty"`
	DiscountPct  float64       `json:"discount_pct"`
	Status       VehicleStatus `json:"status"`
	BranchID     int64         `json:"branch_id"`
	Description  string        `json:"description"`
	ImageURL     string        `json:"image_url"`
}

// VehicleFilter narrows a vehicle search; zero values mean "any".
type VehicleFilter struct {
	Category     string
	Transmission string
	Status       VehicleStatus
	MinPrice     float64
	MaxPrice     float64
	Text         string
}
