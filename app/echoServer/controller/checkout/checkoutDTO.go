package checkout

import "time"

type CheckoutReq struct {
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	PayerAccount string `json:"payer_account" validate:"required"`
	Method       string `json:"method" validate:"required"`
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
