package reservationsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	holdrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/hold"
	reservationrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/reservation"
	vehiclerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/vehicle"
	"github.com/armando2sarango/cuencawheels-rest-sub000/util/pricing"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrBadDates          ErrCode = "BAD_DATES"
	ErrVehicleNotFound   ErrCode = "VEHICLE_NOT_FOUND"
	ErrHoldNotActive     ErrCode = "HOLD_NOT_ACTIVE"
	ErrIllegalTransition ErrCode = "ILLEGAL_TRANSITION"
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

// legal transitions for status updates; everything else is rejected
// before any write. Confirming a PENDING reservation is not here on
// purpose: only a successful payment confirms, under the row lock the
// payment service takes.
var transitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.ReservationPending:   {model.ReservationRejected, model.ReservationCancelled},
	model.ReservationConfirmed: {model.ReservationFinalized, model.ReservationCancelled},
}

func canTransition(from, to model.ReservationStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// releasesVehicle reports whether a status transition hands the vehicle
// back to the fleet.
func releasesVehicle(to model.ReservationStatus) bool {
	switch to {
	case model.ReservationFinalized, model.ReservationRejected, model.ReservationCancelled:
		return true
	}
	return false
}

type StatusChange struct {
	Reservation *model.Reservation `json:"reservation"`
	// Warning is set when the vehicle-availability reset failed; the
	// status change itself is already committed and stays.
	Warning string `json:"warning,omitempty"`
}

type Service interface {
	// CreateHold locks a vehicle and date range for ttl seconds and
	// returns the hold token the reservation step consumes.
	CreateHold(ctx context.Context, vehicleID int64, start, end time.Time, ttlSec int) (*model.Hold, error)

	// CreateFromHold turns an active hold into a PENDING reservation,
	// finalizing dates and price from the hold.
	CreateFromHold(ctx context.Context, userID int64, holdID string) (*model.Reservation, error)

	UpdateStatus(ctx context.Context, id int64, to model.ReservationStatus) (*StatusChange, error)

	List(ctx context.Context) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Reservation, error)
	Detail(ctx context.Context, id int64) (*model.Reservation, error)
	Update(ctx context.Context, res *model.Reservation) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db *sql.DB
	r  reservationrepo.Repo
	h  holdrepo.Repo
	v  vehiclerepo.Repo
}

func New(db *sql.DB, r reservationrepo.Repo, h holdrepo.Repo, v vehiclerepo.Repo) Service {
	return &service{db: db, r: r, h: h, v: v}
}

func (s *service) CreateHold(ctx context.Context, vehicleID int64, start, end time.Time, ttlSec int) (*model.Hold, error) {
	if !end.After(start) {
		return nil, makeErr(ErrBadDates)
	}
	if ttlSec <= 0 {
		ttlSec = 300
	}

	if _, err := s.v.ByID(ctx, vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrVehicleNotFound)
		}
		return nil, err
	}

	h := &model.Hold{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		StartDate: start,
		EndDate:   end,
		Status:    model.HoldActive,
		ExpiresAt: time.Now().UTC().Add(time.Duration(ttlSec) * time.Second),
	}
	if err := s.h.Insert(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) CreateFromHold(ctx context.Context, userID int64, holdID string) (res *model.Reservation, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	h, err := s.h.GetActiveForUpdate(ctx, tx, holdID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrHoldNotActive)
		}
		return nil, err
	}

	veh, err := s.v.LockForUpdate(ctx, tx, h.VehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrVehicleNotFound)
		}
		return nil, err
	}

	nights := pricing.Nights(h.StartDate, h.EndDate)
	total := pricing.Total(pricing.Subtotal(veh.DailyPrice, nights))

	res = &model.Reservation{
		UserID:    userID,
		VehicleID: h.VehicleID,
		StartDate: h.StartDate,
		EndDate:   h.EndDate,
		Nights:    nights,
		Total:     total,
		Status:    model.ReservationPending,
		HoldID:    &h.ID,
	}
	if _, err = s.r.InsertTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err = s.h.MarkConsumed(ctx, tx, h.ID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, to model.ReservationStatus) (*StatusChange, error) {
	res, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if !canTransition(res.Status, to) {
		return nil, makeErr(ErrIllegalTransition)
	}

	if err := s.r.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	res.Status = to

	change := &StatusChange{Reservation: res}
	if releasesVehicle(to) {
		// Best effort: the committed status change is never reverted
		// when the availability reset fails.
		if err := s.resetVehicle(ctx, res.VehicleID); err != nil {
			change.Warning = fmt.Sprintf("reservation is %s but vehicle %d was not reset to available: %v",
				to, res.VehicleID, err)
		}
	}
	return change, nil
}

// resetVehicle re-fetches the full vehicle record before the state write;
// the update endpoint semantics expect the complete entity.
func (s *service) resetVehicle(ctx context.Context, vehicleID int64) error {
	if _, err := s.v.ByID(ctx, vehicleID); err != nil {
		return err
	}
	return s.v.SetStatus(ctx, vehicleID, model.VehicleAvailable)
}

func (s *service) List(ctx context.Context) ([]model.Reservation, error) { return s.r.List(ctx) }

func (s *service) ListByUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Reservation, error) {
	res, err := s.r.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrNotFound)
	}
	return res, err
}

// Update edits a reservation's dates. Nights and total are recomputed
// from the vehicle's current daily price; status, owner, and vehicle
// are carried over from the stored row so a date edit can never change
// them.
func (s *service) Update(ctx context.Context, res *model.Reservation) error {
	if !res.EndDate.After(res.StartDate) {
		return makeErr(ErrBadDates)
	}

	cur, err := s.r.ByID(ctx, res.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotFound)
	}
	if err != nil {
		return err
	}

	veh, err := s.v.ByID(ctx, cur.VehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrVehicleNotFound)
	}
	if err != nil {
		return err
	}

	res.UserID = cur.UserID
	res.VehicleID = cur.VehicleID
	res.HoldID = cur.HoldID
	res.Status = cur.Status
	res.Nights = pricing.Nights(res.StartDate, res.EndDate)
	res.Total = pricing.Total(pricing.Subtotal(veh.DailyPrice, res.Nights))

	err = s.r.Update(ctx, res)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotFound)
	}
	return err
}

func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.r.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotFound)
	}
	return err
}
