package paymentrepo

import (
	"context"
	"database/sql"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
)

const cols = `id, reservation_id, method, amount, paid_at, external_ref, status, payer_account, payee_account`

type Repo interface {
	Insert(ctx context.Context, p *model.Payment) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Payment, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]model.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const insertQ = `
	INSERT INTO payments (reservation_id, method, amount, paid_at, external_ref, status, payer_account, payee_account)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	RETURNING id`

func (r *repo) Insert(ctx context.Context, p *model.Payment) (int64, error) {
	err := r.db.QueryRowContext(ctx, insertQ, p.ReservationID, p.Method, p.Amount, p.PaidAt,
		p.ExternalRef, p.Status, p.PayerAccount, p.PayeeAccount).Scan(&p.ID)
	return p.ID, err
}

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.ReservationID, &p.Method, &p.Amount, &p.PaidAt,
		&p.ExternalRef, &p.Status, &p.PayerAccount, &p.PayeeAccount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx, `SELECT `+cols+` FROM payments WHERE id=$1`, id))
}

func (r *repo) ListByReservation(ctx context.Context, reservationID int64) ([]model.Payment, error) {
	return r.query(ctx, `SELECT `+cols+` FROM payments WHERE reservation_id=$1 ORDER BY id`, reservationID)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	const q = `
		SELECT p.id, p.reservation_id, p.method, p.amount, p.paid_at, p.external_ref,
			p.status, p.payer_account, p.payee_account
		FROM payments p
		JOIN reservations res ON res.id = p.reservation_id
		WHERE res.user_id = $1
		ORDER BY p.id DESC`
	return r.query(ctx, q, userID)
}

func (r *repo) query(ctx context.Context, q string, args ...any) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, p *model.Payment) error {
	const q = `
		UPDATE payments
		SET method=$2, amount=$3, status=$4, payer_account=$5, payee_account=$6
		WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Method, p.Amount, p.Status, p.PayerAccount, p.PayeeAccount)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
