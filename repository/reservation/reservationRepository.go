package reservationrepo

import (
	"context"
	"database/sql"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
)

const cols = `id, user_id, vehicle_id, start_date, end_date, nights, total, status, hold_id, created_at`

type Repo interface {
	InsertTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Reservation, error)
	List(ctx context.Context) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Reservation, error)
	Update(ctx context.Context, res *model.Reservation) error
	UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error
	Delete(ctx context.Context, id int64) error

	// GetForUpdate locks the reservation row for the pay flow.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Reservation, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.UserID, &res.VehicleID, &res.StartDate, &res.EndDate,
		&res.Nights, &res.Total, &res.Status, &res.HoldID, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repo) InsertTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) (int64, error) {
	const q = `
		INSERT INTO reservations (user_id, vehicle_id, start_date, end_date, nights, total, status, hold_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, q, res.UserID, res.VehicleID, res.StartDate, res.EndDate,
		res.Nights, res.Total, res.Status, res.HoldID).Scan(&id)
	if err != nil {
		return 0, err
	}
	res.ID = id
	return id, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+cols+` FROM reservations WHERE id=$1`, id))
}

func (r *repo) List(ctx context.Context) ([]model.Reservation, error) {
	return r.query(ctx, `SELECT `+cols+` FROM reservations ORDER BY created_at DESC, id DESC`)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	return r.query(ctx,
		`SELECT `+cols+` FROM reservations WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *repo) query(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `
		UPDATE reservations
		SET start_date=$2, end_date=$3, nights=$4, total=$5, status=$6
		WHERE id=$1`
	result, err := r.db.ExecContext(ctx, q, res.ID, res.StartDate, res.EndDate, res.Nights, res.Total, res.Status)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reservations SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Reservation, error) {
	return scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+cols+` FROM reservations WHERE id=$1 FOR UPDATE`, id))
}

func (r *repo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET status=$2 WHERE id=$1`, id, status)
	return err
}
