package vehiclesvc

import (
	"context"
	"errors"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
)

type Vehicle = model.Vehicle

type Repo interface {
	List(ctx context.Context) ([]model.Vehicle, error)
	ByID(ctx context.Context, id int64) (*model.Vehicle, error)
	Search(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error)
	Create(ctx context.Context, v *model.Vehicle) error
	Update(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	List(ctx context.Context) ([]Vehicle, error)
	Detail(ctx context.Context, id int64) (*Vehicle, error)
	Search(ctx context.Context, f model.VehicleFilter) ([]Vehicle, error)
	Create(ctx context.Context, v *Vehicle) error
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func validate(v *Vehicle) error {
	if v.Make == "" || v.Model == "" || v.Category == "" {
		return errors.New("invalid payload")
	}
	if v.DailyPrice <= 0 {
		return errors.New("daily price must be positive")
	}
	if v.Status == "" {
		v.Status = model.VehicleAvailable
	}
	return nil
}

func (s *service) Create(ctx context.Context, v *Vehicle) error {
	if err := validate(v); err != nil {
		return err
	}
	return s.r.Create(ctx, v)
}

func (s *service) Update(ctx context.Context, v *Vehicle) error {
	if err := validate(v); err != nil {
		return err
	}
	return s.r.Update(ctx, v)
}

func (s *service) List(ctx context.Context) ([]Vehicle, error) { return s.r.List(ctx) }
func (s *service) Detail(ctx context.Context, id int64) (*Vehicle, error) {
	return s.r.ByID(ctx, id)
}
func (s *service) Search(ctx context.Context, f model.VehicleFilter) ([]Vehicle, error) {
	return s.r.Search(ctx, f)
}
func (s *service) Delete(ctx context.Context, id int64) error { return s.r.Delete(ctx, id) }
