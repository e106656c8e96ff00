package reservationsvc

import (
	"context"
	"time"

	holdrepo "github.com/armando2sarango/cuencawheels-rest-sub000/repository/hold"
)

type Cleaner interface {
	ReleaseExpired(ctx context.Context) (int64, error)
}

type cleaner struct {
	h holdrepo.Repo
}

func NewCleaner(h holdrepo.Repo) Cleaner { return &cleaner{h: h} }

func (c *cleaner) ReleaseExpired(ctx context.Context) (int64, error) {
	return c.h.ReleaseExpired(ctx, time.Now().UTC())
}
