package cartsvc

import (
	"context"
	"database/sql"
	"errors"

	cartrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/cart"
	vehiclerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/vehicle"
)

type ErrCode string

const (
	ErrDuplicate       ErrCode = "DUPLICATE_ITEM"
	ErrVehicleNotFound ErrCode = "VEHICLE_NOT_FOUND"
	ErrItemNotFound    ErrCode = "ITEM_NOT_FOUND"
	ErrNotOwner        ErrCode = "NOT_OWNER"
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

type Row = cartrepo.Row

type Service interface {
	List(ctx context.Context, cartID string) ([]Row, error)
	// Add rejects a (cart, vehicle) duplicate before touching the insert.
	Add(ctx context.Context, cartID string, userID, vehicleID int64) (int64, error)
	Remove(ctx context.Context, userID, itemID int64) error
}

type service struct {
	c cartrepo.Repo
	v vehiclerepo.Repo
}

func New(c cartrepo.Repo, v vehiclerepo.Repo) Service { return &service{c: c, v: v} }

func (s *service) List(ctx context.Context, cartID string) ([]Row, error) {
	return s.c.ListByCart(ctx, cartID)
}

func (s *service) Add(ctx context.Context, cartID string, userID, vehicleID int64) (int64, error) {
	if _, err := s.v.ByID(ctx, vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrVehicleNotFound)
		}
		return 0, err
	}

	dup, err := s.c.Exists(ctx, cartID, vehicleID)
	if err != nil {
		return 0, err
	}
	if dup {
		return 0, makeErr(ErrDuplicate)
	}

	return s.c.Insert(ctx, cartID, userID, vehicleID)
}

func (s *service) Remove(ctx context.Context, userID, itemID int64) error {
	row, err := s.c.ByItemID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrItemNotFound)
		}
		return err
	}
	if row.UserID != userID {
		return makeErr(ErrNotOwner)
	}
	return s.c.Delete(ctx, itemID)
}
