package holdrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
)

type Repo interface {
	Insert(ctx context.Context, h *model.Hold) error

	// GetActiveForUpdate locks an ACTIVE, unexpired hold row so two
	// reservations cannot consume the same hold.
	GetActiveForUpdate(ctx context.Context, tx *sql.Tx, id string, now time.Time) (*model.Hold, error)
	MarkConsumed(ctx context.Context, tx *sql.Tx, id string) error

	// ReleaseExpired flips ACTIVE holds past their deadline to EXPIRED.
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, h *model.Hold) error {
	const q = `
		INSERT INTO holds (id, vehicle_id, start_date, end_date, status, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`
	return r.db.QueryRowContext(ctx, q, h.ID, h.VehicleID, h.StartDate, h.EndDate,
		h.Status, h.ExpiresAt).Scan(&h.CreatedAt)
}

func (r *repo) GetActiveForUpdate(ctx context.Context, tx *sql.Tx, id string, now time.Time) (*model.Hold, error) {
	const q = `
		SELECT id, vehicle_id, start_date, end_date, status, expires_at, created_at
		FROM holds
		WHERE id=$1
		AND status='ACTIVE'
		AND expires_at > $2
		FOR UPDATE`
	var h model.Hold
	err := tx.QueryRowContext(ctx, q, id, now).Scan(&h.ID, &h.VehicleID, &h.StartDate,
		&h.EndDate, &h.Status, &h.ExpiresAt, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repo) MarkConsumed(ctx context.Context, tx *sql.Tx, id string) error {
	const q = `
		UPDATE holds
		SET status='CONSUMED'
		WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

func (r *repo) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE holds
		SET status='EXPIRED'
		WHERE status='ACTIVE'
		AND expires_at <= $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
