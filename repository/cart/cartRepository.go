package cartrepo

import (
	"context"
	"database/sql"
	"time"
)

// Row joins a cart item with the vehicle fields checkout needs.
type Row struct {
	ItemID      int64     `json:"item_id"`
	CartID      string    `json:"cart_id"`
	UserID      int64     `json:"user_id"`
	VehicleID   int64     `json:"vehicle_id"`
	VehicleName string    `json:"vehicle_name"`
	DailyPrice  float64   `json:"daily_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Repo interface {
	ListByCart(ctx context.Context, cartID string) ([]Row, error)
	Exists(ctx context.Context, cartID string, vehicleID int64) (bool, error)
	Insert(ctx context.Context, cartID string, userID, vehicleID int64) (int64, error)
	ByItemID(ctx context.Context, itemID int64) (*Row, error)
	Delete(ctx context.Context, itemID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ListByCart(ctx context.Context, cartID string) ([]Row, error) {
	const q = `
		SELECT
			ci.id          AS item_id,
			ci.cart_id     AS cart_id,
			ci.user_id     AS user_id,
			ci.vehicle_id  AS vehicle_id,
			v.make || ' ' || v.model AS vehicle_name,
			v.daily_price  AS daily_price,
			v.status       AS status,
			ci.created_at  AS created_at
		FROM cart_items ci
		JOIN vehicles v ON v.id = ci.vehicle_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`
	rows, err := r.db.QueryContext(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var c Row
		if err := rows.Scan(&c.ItemID, &c.CartID, &c.UserID, &c.VehicleID,
			&c.VehicleName, &c.DailyPrice, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) Exists(ctx context.Context, cartID string, vehicleID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM cart_items WHERE cart_id=$1 AND vehicle_id=$2)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, cartID, vehicleID).Scan(&ok)
	return ok, err
}

func (r *repo) Insert(ctx context.Context, cartID string, userID, vehicleID int64) (int64, error) {
	const q = `
		INSERT INTO cart_items (cart_id, user_id, vehicle_id)
		VALUES ($1,$2,$3)
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, cartID, userID, vehicleID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) ByItemID(ctx context.Context, itemID int64) (*Row, error) {
	const q = `
		SELECT ci.id, ci.cart_id, ci.user_id, ci.vehicle_id,
			v.make || ' ' || v.model, v.daily_price, v.status, ci.created_at
		FROM cart_items ci
		JOIN vehicles v ON v.id = ci.vehicle_id
		WHERE ci.id = $1`
	var c Row
	err := r.db.QueryRowContext(ctx, q, itemID).Scan(&c.ItemID, &c.CartID, &c.UserID,
		&c.VehicleID, &c.VehicleName, &c.DailyPrice, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id=$1`, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
