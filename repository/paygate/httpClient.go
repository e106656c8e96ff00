package paygaterepo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/armando2sarango/cuencawheels-rest-sub000/util/httpx"
)

type httpRepo struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTP(baseURL, apiKey string) Repo {
	return &httpRepo{baseURL: baseURL, apiKey: apiKey, client: httpx.Client()}
}

func (r *httpRepo) Charge(req ChargeReq) (*ChargeResp, error) {
	body := map[string]any{
		"external_id":   req.ExternalID,
		"amount":        req.Amount,
		"method":        req.Method,
		"payer_account": req.PayerAccount,
		"payee_account": req.PayeeAccount,
		"description":   req.Description,
	}
	raw, err := r.post("/v1/charges", body)
	if err != nil {
		return nil, err
	}

	var out struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		PaidAt    string `json:"paid_at"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out.Reference == "" {
		return nil, errors.New("paygate: empty charge reference")
	}
	return &ChargeResp{Reference: out.Reference, Status: out.Status, PaidAt: out.PaidAt}, nil
}

func (r *httpRepo) RenderDocument(req RenderReq) (*RenderResp, error) {
	raw, err := r.post("/v1/documents", map[string]any{
		"invoice_id": req.InvoiceID,
		"total":      req.Total,
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		DocumentURL string `json:"document_url"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out.DocumentURL == "" {
		return nil, errors.New("paygate: empty document url")
	}
	return &RenderResp{DocumentURL: out.DocumentURL}, nil
}

func (r *httpRepo) post(path string, body map[string]any) (json.RawMessage, error) {
	b, _ := json.Marshal(body)
	httpReq, err := http.NewRequest("POST", r.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paygate: no response: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paygate: %s", ErrorMessage(raw, resp.Status))
	}
	return Unwrap(raw), nil
}

// Unwrap tolerates both a bare payload and a {"data": ...} envelope.
func Unwrap(raw []byte) json.RawMessage {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return raw
}

// ErrorMessage digs a human-readable message out of the provider's
// error bodies: a bare string, {"message"}, {"Message"}, {"error"},
// or a {"data": ...} wrapper around any of those. Falls back to the
// HTTP status line.
func ErrorMessage(raw []byte, status string) string {
	if len(raw) == 0 {
		return status
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	var shaped struct {
		Message  string          `json:"message"`
		MessageU string          `json:"Message"`
		Error    string          `json:"error"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &shaped); err == nil {
		switch {
		case shaped.Message != "":
			return shaped.Message
		case shaped.MessageU != "":
			return shaped.MessageU
		case shaped.Error != "":
			return shaped.Error
		case len(shaped.Data) > 0:
			return ErrorMessage(shaped.Data, status)
		}
	}
	return status
}
