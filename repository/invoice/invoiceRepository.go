package invoicerepo

import (
	"context"
	"database/sql"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
)

type Repo interface {
	// Insert writes the invoice and its lines in one transaction.
	Insert(ctx context.Context, inv *model.Invoice) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	SetDocumentURL(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, inv *model.Invoice) (retID int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
		INSERT INTO invoices (reservation_id, user_id, total)
		VALUES ($1,$2,$3)
		RETURNING id, emitted_at`
	if err = tx.QueryRowContext(ctx, q, inv.ReservationID, inv.UserID, inv.Total).
		Scan(&inv.ID, &inv.EmittedAt); err != nil {
		return 0, err
	}

	const lq = `INSERT INTO invoice_lines (invoice_id, description, amount) VALUES ($1,$2,$3) RETURNING id`
	for i := range inv.Lines {
		inv.Lines[i].InvoiceID = inv.ID
		if err = tx.QueryRowContext(ctx, lq, inv.ID, inv.Lines[i].Description, inv.Lines[i].Amount).
			Scan(&inv.Lines[i].ID); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return inv.ID, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Invoice, error) {
	const q = `
		SELECT id, reservation_id, user_id, emitted_at, total, document_url
		FROM invoices WHERE id=$1`
	var inv model.Invoice
	err := r.db.QueryRowContext(ctx, q, id).Scan(&inv.ID, &inv.ReservationID, &inv.UserID,
		&inv.EmittedAt, &inv.Total, &inv.DocumentURL)
	if err != nil {
		return nil, err
	}

	const lq = `SELECT id, invoice_id, description, amount FROM invoice_lines WHERE invoice_id=$1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, lq, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l model.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Description, &l.Amount); err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, l)
	}
	return &inv, rows.Err()
}

func (r *repo) List(ctx context.Context) ([]model.Invoice, error) {
	return r.query(ctx, `
		SELECT id, reservation_id, user_id, emitted_at, total, document_url
		FROM invoices ORDER BY emitted_at DESC, id DESC`)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Invoice, error) {
	return r.query(ctx, `
		SELECT id, reservation_id, user_id, emitted_at, total, document_url
		FROM invoices WHERE user_id=$1 ORDER BY emitted_at DESC, id DESC`, userID)
}

func (r *repo) query(ctx context.Context, q string, args ...any) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.ReservationID, &inv.UserID, &inv.EmittedAt,
			&inv.Total, &inv.DocumentURL); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, inv *model.Invoice) error {
	const q = `UPDATE invoices SET total=$2, document_url=$3 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, inv.ID, inv.Total, inv.DocumentURL)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) SetDocumentURL(ctx context.Context, id int64, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE invoices SET document_url=$2 WHERE id=$1`, id, url)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
