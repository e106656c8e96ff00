package authsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	userrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/user"
	"github.com/armando2sarango/cuencawheels-rest-sub000/util/hash"
	jwtutil "github.com/armando2sarango/cuencawheels-rest-sub000/util/jwt"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrBadInput      = errors.New("bad input")
	ErrInvalidCreds  = errors.New("invalid credentials")
	ErrUsernameTaken = errors.New("username already taken")
)

// SessionIssuer opens the server-side sliding-expiry session on login.
type SessionIssuer interface {
	Issue(u *model.User) (*model.Session, error)
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	ur       userrepo.Repo
	sessions SessionIssuer
	secret   string
}

func New(ur userrepo.Repo, sessions SessionIssuer, secret string) Service {
	return &service{ur: ur, sessions: sessions, secret: secret}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Username) == "" || len(req.Password) < 6 {
		return nil, "", ErrBadInput
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         model.RoleClient,
		CartID:       uuid.NewString(),
	}

	if err := s.ur.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, "", ErrBadInput
	}

	u, err := s.ur.ByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, "", ErrInvalidCreds
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) issueToken(u *model.User) (string, error) {
	sid := ""
	if s.sessions != nil {
		sess, err := s.sessions.Issue(u)
		if err != nil {
			return "", err
		}
		sid = sess.ID
	}
	return jwtutil.Issue(s.secret, u.ID, u.Role, sid, 24)
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return ErrEmailTaken
		}
		if strings.Contains(cn, "users_username") || strings.Contains(msg, "username") {
			return ErrUsernameTaken
		}
		return ErrBadInput
	}

	return nil
}
