package usersvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	userrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/user"
)

var ErrNotFound = errors.New("user not found")

type Service interface {
	List(ctx context.Context) ([]model.User, error)
	Detail(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r userrepo.Repo }

func New(r userrepo.Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context) ([]model.User, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.r.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *service) Update(ctx context.Context, u *model.User) error {
	err := s.r.Update(ctx, u)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.r.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
