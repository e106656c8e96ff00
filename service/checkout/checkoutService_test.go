package checkoutsvc_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	cartrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/cart"
	paygaterepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/paygate"
	paymentrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/payment"
	reservationrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/reservation"
	vehiclerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/vehicle"
	checkoutsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/checkout"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type cartMock struct {
	listFn   func(ctx context.Context, cartID string) ([]cartrepo.Row, error)
	deleteFn func(ctx context.Context, itemID int64) error
	deleted  []int64
}

var _ cartrepo.Repo = (*cartMock)(nil)

func (m *cartMock) ListByCart(ctx context.Context, cartID string) ([]cartrepo.Row, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, cartID)
}
func (m *cartMock) Exists(ctx context.Context, cartID string, vehicleID int64) (bool, error) {
	return false, nil
}
func (m *cartMock) Insert(ctx context.Context, cartID string, userID, vehicleID int64) (int64, error) {
	return 0, nil
}
func (m *cartMock) ByItemID(ctx context.Context, itemID int64) (*cartrepo.Row, error) {
	return nil, sql.ErrNoRows
}
func (m *cartMock) Delete(ctx context.Context, itemID int64) error {
	m.deleted = append(m.deleted, itemID)
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, itemID)
}

type vehicleMock struct {
	lockFn      func(ctx context.Context, tx *sql.Tx, id int64) (*model.Vehicle, error)
	setStatusTx func(ctx context.Context, tx *sql.Tx, id int64, status model.VehicleStatus) error
}

var _ vehiclerepo.Repo = (*vehicleMock)(nil)

func (m *vehicleMock) List(ctx context.Context) ([]model.Vehicle, error) { return nil, nil }
func (m *vehicleMock) ByID(ctx context.Context, id int64) (*model.Vehicle, error) {
	return nil, sql.ErrNoRows
}
func (m *vehicleMock) Search(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	return nil, nil
}
func (m *vehicleMock) Create(ctx context.Context, v *model.Vehicle) error { return nil }
func (m *vehicleMock) Update(ctx context.Context, v *model.Vehicle) error { return nil }
func (m *vehicleMock) Delete(ctx context.Context, id int64) error         { return nil }
func (m *vehicleMock) LockForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Vehicle, error) {
	if m.lockFn == nil {
		return &model.Vehicle{ID: id, Status: model.VehicleAvailable}, nil
	}
	return m.lockFn(ctx, tx, id)
}
func (m *vehicleMock) SetStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.VehicleStatus) error {
	if m.setStatusTx == nil {
		return nil
	}
	return m.setStatusTx(ctx, tx, id, status)
}
func (m *vehicleMock) SetStatus(ctx context.Context, id int64, status model.VehicleStatus) error {
	return nil
}

type reservationMock struct {
	insertTxFn func(ctx context.Context, tx *sql.Tx, res *model.Reservation) (int64, error)
	inserted   []model.Reservation
}

var _ reservationrepo.Repo = (*reservationMock)(nil)

func (m *reservationMock) InsertTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) (int64, error) {
	if m.insertTxFn != nil {
		return m.insertTxFn(ctx, tx, res)
	}
	res.ID = int64(len(m.inserted) + 100)
	m.inserted = append(m.inserted, *res)
	return res.ID, nil
}
func (m *reservationMock) ByID(ctx context.Context, id int64) (*model.Reservation, error) {
	return nil, sql.ErrNoRows
}
func (m *reservationMock) List(ctx context.Context) ([]model.Reservation, error) { return nil, nil }
func (m *reservationMock) ListByUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	return nil, nil
}
func (m *reservationMock) Update(ctx context.Context, res *model.Reservation) error { return nil }
func (m *reservationMock) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error {
	return nil
}
func (m *reservationMock) Delete(ctx context.Context, id int64) error { return nil }
func (m *reservationMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Reservation, error) {
	return nil, sql.ErrNoRows
}
func (m *reservationMock) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error {
	return nil
}

type paymentMock struct {
	insertFn func(ctx context.Context, p *model.Payment) (int64, error)
	inserted []model.Payment
}

var _ paymentrepo.Repo = (*paymentMock)(nil)

func (m *paymentMock) Insert(ctx context.Context, p *model.Payment) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, p)
	}
	m.inserted = append(m.inserted, *p)
	return int64(len(m.inserted) + 500), nil
}
func (m *paymentMock) ByID(ctx context.Context, id int64) (*model.Payment, error) {
	return nil, sql.ErrNoRows
}
func (m *paymentMock) ListByReservation(ctx context.Context, reservationID int64) ([]model.Payment, error) {
	return nil, nil
}
func (m *paymentMock) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	return nil, nil
}
func (m *paymentMock) Update(ctx context.Context, p *model.Payment) error { return nil }
func (m *paymentMock) Delete(ctx context.Context, id int64) error         { return nil }

type paygateMock struct {
	chargeFn func(req paygaterepo.ChargeReq) (*paygaterepo.ChargeResp, error)
	charges  []paygaterepo.ChargeReq
}

var _ paygaterepo.Repo = (*paygateMock)(nil)

func (m *paygateMock) Charge(req paygaterepo.ChargeReq) (*paygaterepo.ChargeResp, error) {
	m.charges = append(m.charges, req)
	if m.chargeFn != nil {
		return m.chargeFn(req)
	}
	return &paygaterepo.ChargeResp{Reference: "ch_test", Status: "APPROVED"}, nil
}
func (m *paygateMock) RenderDocument(req paygaterepo.RenderReq) (*paygaterepo.RenderResp, error) {
	return &paygaterepo.RenderResp{DocumentURL: "http://docs/test.pdf"}, nil
}

type invoiceMock struct {
	createFn func(ctx context.Context, res *model.Reservation) (int64, string, error)
}

func (m *invoiceMock) CreateForReservation(ctx context.Context, res *model.Reservation) (int64, string, error) {
	if m.createFn == nil {
		return 900, "", nil
	}
	return m.createFn(ctx, res)
}

func txDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func dates() (time.Time, time.Time) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 3)
}

func row(itemID, vehicleID int64, name string, price float64) cartrepo.Row {
	return cartrepo.Row{
		ItemID:      itemID,
		CartID:      "cart-1",
		UserID:      7,
		VehicleID:   vehicleID,
		VehicleName: name,
		DailyPrice:  price,
	}
}

func TestCheckout_RejectsBadDates(t *testing.T) {
	db, _ := txDB(t)
	svc := checkoutsvc.New(db, &cartMock{}, &vehicleMock{}, &reservationMock{}, &paymentMock{}, &invoiceMock{}, &paygateMock{})

	start, _ := dates()
	_, err := svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: start,
	})
	require.Error(t, err)
	require.Equal(t, checkoutsvc.ErrBadDates, checkoutsvc.Code(err))

	_, err = svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: start.AddDate(0, 0, -1),
	})
	require.Equal(t, checkoutsvc.ErrBadDates, checkoutsvc.Code(err))
}

func TestCheckout_RejectsEmptyCart(t *testing.T) {
	db, _ := txDB(t)
	c := &cartMock{listFn: func(ctx context.Context, cartID string) ([]cartrepo.Row, error) {
		return nil, nil
	}}
	svc := checkoutsvc.New(db, c, &vehicleMock{}, &reservationMock{}, &paymentMock{}, &invoiceMock{}, &paygateMock{})

	start, end := dates()
	_, err := svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: end,
	})
	require.Error(t, err)
	require.Equal(t, checkoutsvc.ErrEmptyCart, checkoutsvc.Code(err))
}

func TestCheckout_FullSuccess(t *testing.T) {
	db, mock := txDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	items := []cartrepo.Row{
		row(1, 10, "Kia Soluto", 40),
		row(2, 11, "Hyundai Tucson", 80),
	}
	calls := 0
	c := &cartMock{listFn: func(ctx context.Context, cartID string) ([]cartrepo.Row, error) {
		calls++
		if calls == 1 {
			return items, nil
		}
		return nil, nil
	}}
	res := &reservationMock{}
	pay := &paymentMock{}
	pg := &paygateMock{}
	svc := checkoutsvc.New(db, c, &vehicleMock{}, res, pay, &invoiceMock{}, pg)

	start, end := dates()
	out, err := svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: end,
		PayerAccount: "acct-7", Method: "card",
	})
	require.NoError(t, err)
	require.Equal(t, checkoutsvc.OutcomeFull, out.Outcome())
	require.Len(t, out.Succeeded, 2)
	require.Empty(t, out.Failed)
	require.Empty(t, out.Cart)

	// 3 nights at 40/day plus 15% tax.
	require.InDelta(t, 138.0, out.Succeeded[0].Total, 1e-9)
	require.InDelta(t, 276.0, out.Succeeded[1].Total, 1e-9)

	require.Len(t, res.inserted, 2)
	require.Equal(t, model.ReservationConfirmed, res.inserted[0].Status)
	require.Equal(t, int64(3), res.inserted[0].Nights)

	require.Len(t, pay.inserted, 2)
	require.Equal(t, model.PaymentApproved, pay.inserted[0].Status)
	require.Equal(t, "ch_test", pay.inserted[0].ExternalRef)
	require.Equal(t, res.inserted[0].ID, pay.inserted[0].ReservationID)

	require.Equal(t, []int64{1, 2}, c.deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_ChargeFailureLeavesItem(t *testing.T) {
	db, mock := txDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	items := []cartrepo.Row{
		row(1, 10, "Kia Soluto", 40),
		row(2, 11, "Hyundai Tucson", 80),
	}
	calls := 0
	c := &cartMock{listFn: func(ctx context.Context, cartID string) ([]cartrepo.Row, error) {
		calls++
		if calls == 1 {
			return items, nil
		}
		return items[1:], nil
	}}
	pg := &paygateMock{chargeFn: func(req paygaterepo.ChargeReq) (*paygaterepo.ChargeResp, error) {
		if req.Amount > 200 {
			return nil, errors.New("card declined")
		}
		return &paygaterepo.ChargeResp{Reference: "ch_ok"}, nil
	}}
	res := &reservationMock{}
	pay := &paymentMock{}
	svc := checkoutsvc.New(db, c, &vehicleMock{}, res, pay, &invoiceMock{}, pg)

	start, end := dates()
	out, err := svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: end, Method: "card",
	})
	require.NoError(t, err)
	require.Equal(t, checkoutsvc.OutcomePartial, out.Outcome())
	require.Len(t, out.Succeeded, 1)
	require.Len(t, out.Failed, 1)
	require.Equal(t, "Hyundai Tucson", out.Failed[0].VehicleName)
	require.Equal(t, checkoutsvc.StepCharge, out.Failed[0].Step)
	require.Equal(t, "card declined", out.Failed[0].Message)

	// Only the first item left the cart; the second is still there.
	require.Equal(t, []int64{1}, c.deleted)
	require.Len(t, out.Cart, 1)
	require.Equal(t, int64(2), out.Cart[0].ItemID)

	// Both reservations committed before the charge step, but only the
	// approved one recorded a payment.
	require.Len(t, res.inserted, 2)
	require.Len(t, pay.inserted, 1)
	require.InDelta(t, 138.0, pay.inserted[0].Amount, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_UnavailableVehicleRollsBack(t *testing.T) {
	db, mock := txDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	c := &cartMock{listFn: func(ctx context.Context, cartID string) ([]cartrepo.Row, error) {
		return []cartrepo.Row{row(1, 10, "Kia Soluto", 40)}, nil
	}}
	v := &vehicleMock{lockFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Vehicle, error) {
		return &model.Vehicle{ID: id, Status: model.VehicleRented}, nil
	}}
	pay := &paymentMock{}
	pg := &paygateMock{}
	svc := checkoutsvc.New(db, c, v, &reservationMock{}, pay, &invoiceMock{}, pg)

	start, end := dates()
	out, err := svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: end,
	})
	require.NoError(t, err)
	require.Equal(t, checkoutsvc.OutcomeFailure, out.Outcome())
	require.Len(t, out.Failed, 1)
	require.Equal(t, checkoutsvc.StepReserve, out.Failed[0].Step)
	require.Contains(t, out.Failed[0].Message, "RENTED")

	// The reserve failure must keep the customer's money untouched.
	require.Empty(t, pg.charges)
	require.Empty(t, pay.inserted)
	require.Empty(t, c.deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_InvoiceFailureKeepsReservation(t *testing.T) {
	db, mock := txDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	c := &cartMock{listFn: func(ctx context.Context, cartID string) ([]cartrepo.Row, error) {
		return []cartrepo.Row{row(1, 10, "Kia Soluto", 40)}, nil
	}}
	inv := &invoiceMock{createFn: func(ctx context.Context, r *model.Reservation) (int64, string, error) {
		return 0, "", errors.New("invoice store down")
	}}
	res := &reservationMock{}
	svc := checkoutsvc.New(db, c, &vehicleMock{}, res, &paymentMock{}, inv, &paygateMock{})

	start, end := dates()
	out, err := svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: end,
	})
	require.NoError(t, err)
	require.Equal(t, checkoutsvc.OutcomeFailure, out.Outcome())
	require.Equal(t, checkoutsvc.StepInvoice, out.Failed[0].Step)

	// The reservation committed before the invoice step; the item is
	// reported failed and stays in the cart.
	require.Len(t, res.inserted, 1)
	require.Empty(t, c.deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_RenderWarningSurfaces(t *testing.T) {
	db, mock := txDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	c := &cartMock{listFn: func(ctx context.Context, cartID string) ([]cartrepo.Row, error) {
		return []cartrepo.Row{row(1, 10, "Kia Soluto", 40)}, nil
	}}
	inv := &invoiceMock{createFn: func(ctx context.Context, r *model.Reservation) (int64, string, error) {
		return 901, "document render failed: paygate timeout", nil
	}}
	svc := checkoutsvc.New(db, c, &vehicleMock{}, &reservationMock{}, &paymentMock{}, inv, &paygateMock{})

	start, end := dates()
	out, err := svc.Checkout(context.Background(), checkoutsvc.Request{
		UserID: 7, CartID: "cart-1", Start: start, End: end,
	})
	require.NoError(t, err)
	require.Equal(t, checkoutsvc.OutcomeFull, out.Outcome())
	require.Equal(t, int64(901), out.Succeeded[0].InvoiceID)
	require.Len(t, out.Succeeded[0].Warnings, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
