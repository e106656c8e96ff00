package vehicle

type VehicleReq struct {
	Make         string   `json:"make" validate:"required"`
	Model        string   `json:"model" validate:"required"`
	Year         int      `json:"year" validate:"required,gte=1980"`
	Category     string   `json:"category" validate:"required"`
	Transmission string   `json:"transmission" validate:"required"`
	Capacity     int      `json:"capacity" validate:"required,gt=0"`
	DailyPrice   float64  `json:"daily_price" validate:"required,gt=0"`
	PromoPrice   *float64 `json:"promo_price,omitempty"`
	DiscountPct  float64  `json:"discount_pct"`
	Status       string   `json:"status"`
	BranchID     int64    `json:"branch_id"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
}
