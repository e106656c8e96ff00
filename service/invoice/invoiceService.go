package invoicesvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	invoicerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/invoice"
	paygaterepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/paygate"
	reservationrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/reservation"
	"github.com/armando2sarango/cuencawheels-rest-sub000/util/pricing"
)

var ErrNotFound = errors.New("invoice not found")

// Renderer produces the invoice document; the URL lands on the invoice
// after the fact, so a render failure is a warning, never a rollback.
type Renderer interface {
	RenderDocument(req paygaterepo.RenderReq) (*paygaterepo.RenderResp, error)
}

type Service interface {
	// CreateForReservation emits the invoice for a reservation total:
	// a rental-subtotal line plus the tax line.
	CreateForReservation(ctx context.Context, res *model.Reservation) (int64, string, error)
	Create(ctx context.Context, reservationID int64) (*model.Invoice, string, error)
	List(ctx context.Context) ([]model.Invoice, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Invoice, error)
	Detail(ctx context.Context, id int64) (*model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	r        invoicerepo.Repo
	res      reservationrepo.Repo
	renderer Renderer
}

func New(r invoicerepo.Repo, res reservationrepo.Repo, renderer Renderer) Service {
	return &service{r: r, res: res, renderer: renderer}
}

func (s *service) CreateForReservation(ctx context.Context, res *model.Reservation) (int64, string, error) {
	subtotal := res.Total / (1 + pricing.TaxRate)
	inv := &model.Invoice{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Total:         res.Total,
		Lines: []model.InvoiceLine{
			{Description: "Rental subtotal", Amount: subtotal},
			{Description: "Tax (15%)", Amount: res.Total - subtotal},
		},
	}
	if _, err := s.r.Insert(ctx, inv); err != nil {
		return 0, "", err
	}

	warning := s.render(ctx, inv)
	return inv.ID, warning, nil
}

// render asks the document service for the rendered invoice and stores
// the URL. Best effort: any failure is folded into a warning.
func (s *service) render(ctx context.Context, inv *model.Invoice) string {
	if s.renderer == nil {
		return ""
	}
	doc, err := s.renderer.RenderDocument(paygaterepo.RenderReq{InvoiceID: inv.ID, Total: inv.Total})
	if err != nil {
		return fmt.Sprintf("invoice %d created but document rendering failed: %v", inv.ID, err)
	}
	if err := s.r.SetDocumentURL(ctx, inv.ID, doc.DocumentURL); err != nil {
		return fmt.Sprintf("invoice %d created but document url not stored: %v", inv.ID, err)
	}
	inv.DocumentURL = &doc.DocumentURL
	return ""
}

func (s *service) Create(ctx context.Context, reservationID int64) (*model.Invoice, string, error) {
	res, err := s.res.ByID(ctx, reservationID)
	if err != nil {
		return nil, "", err
	}
	id, warning, err := s.CreateForReservation(ctx, res)
	if err != nil {
		return nil, "", err
	}
	inv, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, warning, err
	}
	return inv, warning, nil
}

func (s *service) List(ctx context.Context) ([]model.Invoice, error) { return s.r.List(ctx) }

func (s *service) ListByUser(ctx context.Context, userID int64) ([]model.Invoice, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Invoice, error) {
	inv, err := s.r.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inv, err
}

func (s *service) Update(ctx context.Context, inv *model.Invoice) error {
	err := s.r.Update(ctx, inv)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.r.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
