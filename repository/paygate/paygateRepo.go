package paygaterepo

// ChargeReq is a one-shot charge against the provider. ExternalID is
// our side's correlation key; the provider echoes it back.
type ChargeReq struct {
	ExternalID   string
	Amount       float64
	Method       string
	PayerAccount string
	PayeeAccount string
	Description  string
}

type ChargeResp struct {
	Reference string
	Status    string
	PaidAt    string
}

type RenderReq struct {
	InvoiceID int64
	Total     float64
}

type RenderResp struct {
	DocumentURL string
}

type Repo interface {
	Charge(req ChargeReq) (*ChargeResp, error)
	RenderDocument(req RenderReq) (*RenderResp, error)
}
