package vehiclerepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
)

const cols = `id, make, model, year, category, transmission, capacity,
	daily_price, promo_price, discount_pct, status, branch_id, description, image_url`

type Repo interface {
	List(ctx context.Context) ([]model.Vehicle, error)
	ByID(ctx context.Context, id int64) (*model.Vehicle, error)
	Search(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error)
	Create(ctx context.Context, v *model.Vehicle) error
	// Update expects the complete entity, not a partial patch.
	Update(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, id int64) error

	// LockForUpdate reads the vehicle row FOR UPDATE inside tx so a
	// competing reservation for the same vehicle blocks until commit.
	LockForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Vehicle, error)
	SetStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.VehicleStatus) error
	SetStatus(ctx context.Context, id int64, status model.VehicleStatus) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func scanVehicle(row interface{ Scan(...any) error }) (*model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Category, &v.Transmission,
		&v.Capacity, &v.DailyPrice, &v.PromoPrice, &v.DiscountPct, &v.Status,
		&v.BranchID, &v.Description, &v.ImageURL)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repo) List(ctx context.Context) ([]model.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cols+` FROM vehicles ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Vehicle, error) {
	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Vehicle, error) {
	return scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+cols+` FROM vehicles WHERE id=$1`, id))
}

func (r *repo) Search(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Transmission != "" {
		add("transmission = $%d", f.Transmission)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.MinPrice > 0 {
		add("daily_price >= $%d", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		add("daily_price <= $%d", f.MaxPrice)
	}
	if f.Text != "" {
		args = append(args, f.Text)
		n := len(args)
		where = append(where, fmt.Sprintf("(make ILIKE '%%'||$%d||'%%' OR model ILIKE '%%'||$%d||'%%')", n, n))
	}

	q := `SELECT ` + cols + ` FROM vehicles`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `
		INSERT INTO vehicles (make, model, year, category, transmission, capacity,
			daily_price, promo_price, discount_pct, status, branch_id, description, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id`
	return r.db.QueryRowContext(ctx, q, v.Make, v.Model, v.Year, v.Category, v.Transmission,
		v.Capacity, v.DailyPrice, v.PromoPrice, v.DiscountPct, v.Status, v.BranchID,
		v.Description, v.ImageURL).Scan(&v.ID)
}

func (r *repo) Update(ctx context.Context, v *model.Vehicle) error {
	const q = `
		UPDATE vehicles
		SET make=$2, model=$3, year=$4, category=$5, transmission=$6, capacity=$7,
			daily_price=$8, promo_price=$9, discount_pct=$10, status=$11,
			branch_id=$12, description=$13, image_url=$14
		WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, v.ID, v.Make, v.Model, v.Year, v.Category,
		v.Transmission, v.Capacity, v.DailyPrice, v.PromoPrice, v.DiscountPct,
		v.Status, v.BranchID, v.Description, v.ImageURL)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) LockForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Vehicle, error) {
	return scanVehicle(tx.QueryRowContext(ctx, `SELECT `+cols+` FROM vehicles WHERE id=$1 FOR UPDATE`, id))
}

func (r *repo) SetStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.VehicleStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE vehicles SET status=$2 WHERE id=$1`, id, status)
	return err
}

func (r *repo) SetStatus(ctx context.Context, id int64, status model.VehicleStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
