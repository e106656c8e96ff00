// Package checkout converts cart items into confirmed reservations,
// recorded payments, invoices, and rented vehicles. Items are processed
// sequentially and fail independently: one vehicle's failure never rolls
// back another's reservation.
package checkoutsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	cartrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/cart"
	paygaterepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/paygate"
	paymentrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/payment"
	reservationrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/reservation"
	vehiclerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/vehicle"
	"github.com/armando2sarango/cuencawheels-rest-sub000/util/pricing"
)

// Saga step names; every per-item failure is tagged with the step that
// caused it.
const (
	StepCharge  = "charge"
	StepReserve = "reserve"
	StepInvoice = "invoice"
	StepCleanup = "cleanup"
)

type ErrCode string

const (
	ErrEmptyCart ErrCode = "EMPTY_CART"
	ErrBadDates  ErrCode = "BAD_DATES"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Request struct {
	UserID       int64
	CartID       string
	Start, End   time.Time
	PayerAccount string
	Method       string
}

type ItemError struct {
	VehicleName string `json:"vehicle_name"`
	Step        string `json:"step"`
	Message     string `json:"message"`
}

type ItemOutcome struct {
	ItemID        int64    `json:"item_id"`
	VehicleID     int64    `json:"vehicle_id"`
	VehicleName   string   `json:"vehicle_name"`
	ReservationID int64    `json:"reservation_id"`
	PaymentID     int64    `json:"payment_id"`
	InvoiceID     int64    `json:"invoice_id"`
	Total         float64  `json:"total"`
	Warnings      []string `json:"warnings,omitempty"`
}

type Result struct {
	Succeeded []ItemOutcome `json:"succeeded"`
	Failed    []ItemError   `json:"failed"`
	// Cart is the re-read cart content; failed items remain in it.
	Cart []cartrepo.Row `json:"cart"`
}

type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomePartial
	OutcomeFull
)

func (r *Result) Outcome() Outcome {
	switch {
	case len(r.Succeeded) == 0:
		return OutcomeFailure
	case len(r.Failed) > 0:
		return OutcomePartial
	default:
		return OutcomeFull
	}
}

// InvoiceCreator hides the invoice service behind the step that needs it.
type InvoiceCreator interface {
	CreateForReservation(ctx context.Context, res *model.Reservation) (invoiceID int64, warning string, err error)
}

type Service interface {
	Checkout(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	db  *sql.DB
	c   cartrepo.Repo
	v   vehiclerepo.Repo
	res reservationrepo.Repo
	p   paymentrepo.Repo
	inv InvoiceCreator
	pg  paygaterepo.Repo
}

func New(db *sql.DB, c cartrepo.Repo, v vehiclerepo.Repo, res reservationrepo.Repo,
	p paymentrepo.Repo, inv InvoiceCreator, pg paygaterepo.Repo) Service {
	return &service{db: db, c: c, v: v, res: res, p: p, inv: inv, pg: pg}
}

func (s *service) Checkout(ctx context.Context, req Request) (*Result, error) {
	// End must be strictly after start on every path; nights still
	// clamps so a same-day pair rents one night.
	if !req.End.After(req.Start) {
		return nil, makeErr(ErrBadDates)
	}

	items, err := s.c.ListByCart(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, makeErr(ErrEmptyCart)
	}

	nights := pricing.Nights(req.Start, req.End)

	out := &Result{}
	for _, it := range items {
		oc, step, err := s.checkoutItem(ctx, req, it, nights)
		if err != nil {
			out.Failed = append(out.Failed, ItemError{
				VehicleName: it.VehicleName,
				Step:        step,
				Message:     errMessage(err),
			})
			continue
		}
		out.Succeeded = append(out.Succeeded, *oc)
	}

	// Re-read the cart regardless of outcome so the caller sees which
	// items survived.
	if cart, err := s.c.ListByCart(ctx, req.CartID); err == nil {
		out.Cart = cart
	}
	return out, nil
}

// checkoutItem runs the saga for one cart item. The reservation insert
// and the AVAILABLE→RENTED flip commit together so a rented vehicle
// always has its confirmed reservation, and no money moves until that
// commit lands: an unavailable vehicle fails the item before the
// provider is ever called. There is no compensation after the commit:
// a charge or invoice failure leaves the reservation confirmed, and the
// item is reported failed so it stays in the cart.
func (s *service) checkoutItem(ctx context.Context, req Request, it cartrepo.Row, nights int64) (*ItemOutcome, string, error) {
	subtotal := pricing.Subtotal(it.DailyPrice, nights)
	total := pricing.Total(subtotal)

	reservation, err := s.reserve(ctx, req, it, nights, total)
	if err != nil {
		return nil, StepReserve, err
	}

	charge, err := s.pg.Charge(paygaterepo.ChargeReq{
		ExternalID:   fmt.Sprintf("checkout:%d:%d:%d", req.UserID, it.VehicleID, reservation.ID),
		Amount:       total,
		Method:       req.Method,
		PayerAccount: req.PayerAccount,
		Description:  "Vehicle rental: " + it.VehicleName,
	})
	if err != nil {
		return nil, StepCharge, err
	}

	paymentID, err := s.p.Insert(ctx, &model.Payment{
		ReservationID: reservation.ID,
		Method:        req.Method,
		Amount:        total,
		PaidAt:        time.Now().UTC(),
		ExternalRef:   charge.Reference,
		Status:        model.PaymentApproved,
		PayerAccount:  req.PayerAccount,
	})
	if err != nil {
		return nil, StepCharge, err
	}

	oc := &ItemOutcome{
		ItemID:        it.ItemID,
		VehicleID:     it.VehicleID,
		VehicleName:   it.VehicleName,
		ReservationID: reservation.ID,
		PaymentID:     paymentID,
		Total:         total,
	}

	invoiceID, warning, err := s.inv.CreateForReservation(ctx, reservation)
	if err != nil {
		return nil, StepInvoice, err
	}
	oc.InvoiceID = invoiceID
	if warning != "" {
		oc.Warnings = append(oc.Warnings, warning)
	}

	if err := s.c.Delete(ctx, it.ItemID); err != nil {
		return nil, StepCleanup, err
	}
	return oc, "", nil
}

func (s *service) reserve(ctx context.Context, req Request, it cartrepo.Row, nights int64, total float64) (reservation *model.Reservation, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	veh, err := s.v.LockForUpdate(ctx, tx, it.VehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("vehicle not found")
		}
		return nil, err
	}
	if veh.Status != model.VehicleAvailable {
		return nil, fmt.Errorf("vehicle is %s", veh.Status)
	}

	reservation = &model.Reservation{
		UserID:    req.UserID,
		VehicleID: it.VehicleID,
		StartDate: req.Start,
		EndDate:   req.End,
		Nights:    nights,
		Total:     total,
		Status:    model.ReservationConfirmed,
	}
	if _, err = s.res.InsertTx(ctx, tx, reservation); err != nil {
		return nil, err
	}

	if err = s.v.SetStatusTx(ctx, tx, it.VehicleID, model.VehicleRented); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return reservation, nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "record not found"
	}
	return err.Error()
}
