package invoicesvc_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	invoicerepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/invoice"
	paygaterepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/paygate"
	invoicesvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/invoice"

	"github.com/stretchr/testify/require"
)

type invoiceMock struct {
	insertFn func(ctx context.Context, inv *model.Invoice) (int64, error)
	byIDFn   func(ctx context.Context, id int64) (*model.Invoice, error)
	setURLFn func(ctx context.Context, id int64, url string) error
	urls     map[int64]string
}

var _ invoicerepo.Repo = (*invoiceMock)(nil)

func (m *invoiceMock) Insert(ctx context.Context, inv *model.Invoice) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, inv)
	}
	inv.ID = 900
	return inv.ID, nil
}
func (m *invoiceMock) ByID(ctx context.Context, id int64) (*model.Invoice, error) {
	if m.byIDFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDFn(ctx, id)
}
func (m *invoiceMock) List(ctx context.Context) ([]model.Invoice, error) { return nil, nil }
func (m *invoiceMock) ListByUser(ctx context.Context, userID int64) ([]model.Invoice, error) {
	return nil, nil
}
func (m *invoiceMock) Update(ctx context.Context, inv *model.Invoice) error { return nil }
func (m *invoiceMock) SetDocumentURL(ctx context.Context, id int64, url string) error {
	if m.urls == nil {
		m.urls = map[int64]string{}
	}
	m.urls[id] = url
	if m.setURLFn != nil {
		return m.setURLFn(ctx, id, url)
	}
	return nil
}
func (m *invoiceMock) Delete(ctx context.Context, id int64) error { return nil }

type resStub struct {
	byIDFn func(ctx context.Context, id int64) (*model.Reservation, error)
}

func (s *resStub) InsertTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) (int64, error) {
	return 0, errors.New("unexpected")
}
func (s *resStub) ByID(ctx context.Context, id int64) (*model.Reservation, error) {
	if s.byIDFn == nil {
		return nil, sql.ErrNoRows
	}
	return s.byIDFn(ctx, id)
}
func (s *resStub) List(ctx context.Context) ([]model.Reservation, error) { return nil, nil }
func (s *resStub) ListByUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	return nil, nil
}
func (s *resStub) Update(ctx context.Context, res *model.Reservation) error { return nil }
func (s *resStub) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error {
	return nil
}
func (s *resStub) Delete(ctx context.Context, id int64) error { return nil }
func (s *resStub) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Reservation, error) {
	return nil, sql.ErrNoRows
}
func (s *resStub) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error {
	return nil
}

type rendererMock struct {
	renderFn func(req paygaterepo.RenderReq) (*paygaterepo.RenderResp, error)
}

func (m *rendererMock) RenderDocument(req paygaterepo.RenderReq) (*paygaterepo.RenderResp, error) {
	if m.renderFn == nil {
		return &paygaterepo.RenderResp{DocumentURL: "http://docs/inv.pdf"}, nil
	}
	return m.renderFn(req)
}

func confirmedReservation() *model.Reservation {
	return &model.Reservation{ID: 5, UserID: 7, VehicleID: 10, Total: 138, Status: model.ReservationConfirmed}
}

func TestCreateForReservation_SplitsTax(t *testing.T) {
	var inserted *model.Invoice
	r := &invoiceMock{insertFn: func(ctx context.Context, inv *model.Invoice) (int64, error) {
		inv.ID = 900
		inserted = inv
		return inv.ID, nil
	}}
	svc := invoicesvc.New(r, &resStub{}, &rendererMock{})

	id, warning, err := svc.CreateForReservation(context.Background(), confirmedReservation())
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, int64(900), id)

	require.Len(t, inserted.Lines, 2)
	require.InDelta(t, 120.0, inserted.Lines[0].Amount, 1e-9)
	require.InDelta(t, 18.0, inserted.Lines[1].Amount, 1e-9)
	require.InDelta(t, 138.0, inserted.Total, 1e-9)

	// The rendered URL lands on the stored row and the entity.
	require.Equal(t, "http://docs/inv.pdf", r.urls[900])
	require.NotNil(t, inserted.DocumentURL)
}

func TestCreateForReservation_RenderFailureIsWarning(t *testing.T) {
	r := &invoiceMock{}
	rend := &rendererMock{renderFn: func(req paygaterepo.RenderReq) (*paygaterepo.RenderResp, error) {
		return nil, errors.New("paygate timeout")
	}}
	svc := invoicesvc.New(r, &resStub{}, rend)

	id, warning, err := svc.CreateForReservation(context.Background(), confirmedReservation())
	require.NoError(t, err)
	require.Equal(t, int64(900), id)
	require.Contains(t, warning, "document rendering failed")
	require.Empty(t, r.urls)
}

func TestCreateForReservation_NoRenderer(t *testing.T) {
	svc := invoicesvc.New(&invoiceMock{}, &resStub{}, nil)

	id, warning, err := svc.CreateForReservation(context.Background(), confirmedReservation())
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, int64(900), id)
}

func TestCreateForReservation_InsertError(t *testing.T) {
	r := &invoiceMock{insertFn: func(ctx context.Context, inv *model.Invoice) (int64, error) {
		return 0, errors.New("db down")
	}}
	svc := invoicesvc.New(r, &resStub{}, &rendererMock{})

	_, _, err := svc.CreateForReservation(context.Background(), confirmedReservation())
	require.Error(t, err)
}

func TestCreate_LooksUpReservation(t *testing.T) {
	res := &resStub{byIDFn: func(ctx context.Context, id int64) (*model.Reservation, error) {
		require.Equal(t, int64(5), id)
		return confirmedReservation(), nil
	}}
	r := &invoiceMock{byIDFn: func(ctx context.Context, id int64) (*model.Invoice, error) {
		return &model.Invoice{ID: id, ReservationID: 5, Total: 138}, nil
	}}
	svc := invoicesvc.New(r, res, &rendererMock{})

	inv, warning, err := svc.Create(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, int64(900), inv.ID)
}

func TestDetail_NotFound(t *testing.T) {
	svc := invoicesvc.New(&invoiceMock{}, &resStub{}, nil)
	_, err := svc.Detail(context.Background(), 404)
	require.ErrorIs(t, err, invoicesvc.ErrNotFound)
}
