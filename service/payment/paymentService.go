// Package payment runs the single-reservation pay flow: charge the payer,
// confirm the reservation, emit the invoice, rent out the vehicle. The
// confirm step is fatal when it fails; invoice and vehicle steps degrade
// to warnings with the payment retained.
package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	paygaterepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/paygate"
	paymentrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/payment"
	reservationrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/reservation"
	vehiclerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/vehicle"
)

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrNotOwner     ErrCode = "NOT_OWNER"
	ErrNotPending   ErrCode = "NOT_PENDING"
	ErrChargeFailed ErrCode = "CHARGE_FAILED"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
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

type PayReq struct {
	UserID        int64
	Role          string
	ReservationID int64
	PayerAccount  string
	Method        string
}

type PayResult struct {
	Payment     *model.Payment     `json:"payment"`
	Reservation *model.Reservation `json:"reservation"`
	InvoiceID   int64              `json:"invoice_id,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// InvoiceCreator is satisfied by the invoice service.
type InvoiceCreator interface {
	CreateForReservation(ctx context.Context, res *model.Reservation) (int64, string, error)
}

type Service interface {
	Pay(ctx context.Context, req PayReq) (*PayResult, error)

	Detail(ctx context.Context, id, userID int64, role string) (*model.Payment, error)
	ListByReservation(ctx context.Context, reservationID, userID int64, role string) ([]model.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db  *sql.DB
	p   paymentrepo.Repo
	r   reservationrepo.Repo
	v   vehiclerepo.Repo
	inv InvoiceCreator
	pg  paygaterepo.Repo
}

func New(db *sql.DB, p paymentrepo.Repo, r reservationrepo.Repo, v vehiclerepo.Repo,
	inv InvoiceCreator, pg paygaterepo.Repo) Service {
	return &service{db: db, p: p, r: r, v: v, inv: inv, pg: pg}
}

func (s *service) Pay(ctx context.Context, req PayReq) (*PayResult, error) {
	res, err := s.r.ByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if req.Role != model.RoleAdministrator && res.UserID != req.UserID {
		return nil, makeErr(ErrNotOwner)
	}
	if res.Status != model.ReservationPending {
		return nil, makeErr(ErrNotPending)
	}

	charge, err := s.pg.Charge(paygaterepo.ChargeReq{
		ExternalID:   fmt.Sprintf("pay:%d:%d", res.ID, time.Now().UnixNano()),
		Amount:       res.Total,
		Method:       req.Method,
		PayerAccount: req.PayerAccount,
		Description:  fmt.Sprintf("Reservation %d", res.ID),
	})
	if err != nil {
		return nil, codedError{code: ErrChargeFailed, msg: err.Error()}
	}

	payment := &model.Payment{
		ReservationID: res.ID,
		Method:        req.Method,
		Amount:        res.Total,
		PaidAt:        time.Now().UTC(),
		ExternalRef:   charge.Reference,
		Status:        model.PaymentApproved,
		PayerAccount:  req.PayerAccount,
	}
	if _, err := s.p.Insert(ctx, payment); err != nil {
		return nil, err
	}

	// Fatal if the confirm does not land: abort before the invoice,
	// the recorded payment stays.
	if err := s.confirm(ctx, res.ID); err != nil {
		return nil, err
	}
	res.Status = model.ReservationConfirmed

	out := &PayResult{Payment: payment, Reservation: res}

	invoiceID, warning, err := s.inv.CreateForReservation(ctx, res)
	if err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("payment recorded but invoice creation failed: %v", err))
	} else {
		out.InvoiceID = invoiceID
		if warning != "" {
			out.Warnings = append(out.Warnings, warning)
		}
	}

	if err := s.rentOut(ctx, res.VehicleID); err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("reservation confirmed but vehicle %d not marked rented: %v",
			res.VehicleID, err))
	}
	return out, nil
}

// confirm re-checks PENDING under a row lock so two concurrent pays
// cannot both flip the reservation.
func (s *service) confirm(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if res.Status != model.ReservationPending {
		return makeErr(ErrNotPending)
	}
	if err = s.r.UpdateStatusTx(ctx, tx, id, model.ReservationConfirmed); err != nil {
		return err
	}
	return tx.Commit()
}

// rentOut re-fetches the full vehicle record before the state write.
func (s *service) rentOut(ctx context.Context, vehicleID int64) error {
	if _, err := s.v.ByID(ctx, vehicleID); err != nil {
		return err
	}
	return s.v.SetStatus(ctx, vehicleID, model.VehicleRented)
}

func (s *service) Detail(ctx context.Context, id, userID int64, role string) (*model.Payment, error) {
	p, err := s.p.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.mustOwnReservation(ctx, p.ReservationID, userID, role); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListByReservation(ctx context.Context, reservationID, userID int64, role string) ([]model.Payment, error) {
	if err := s.mustOwnReservation(ctx, reservationID, userID, role); err != nil {
		return nil, err
	}
	return s.p.ListByReservation(ctx, reservationID)
}

// mustOwnReservation rejects clients reading payments of reservations
// they do not own. Administrators pass.
func (s *service) mustOwnReservation(ctx context.Context, reservationID, userID int64, role string) error {
	if role == model.RoleAdministrator {
		return nil
	}
	res, err := s.r.ByID(ctx, reservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotFound)
	}
	if err != nil {
		return err
	}
	if res.UserID != userID {
		return makeErr(ErrNotOwner)
	}
	return nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	return s.p.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, p *model.Payment) error {
	err := s.p.Update(ctx, p)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotFound)
	}
	return err
}

func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.p.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotFound)
	}
	return err
}
