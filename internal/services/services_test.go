package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/testutil"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

type fixture struct {
	db    *gorm.DB
	svc   *Services
	views *views.Recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rec := views.NewRecorder()
	return &fixture{
		db:    db,
		svc:   New(repositories.NewStore(db), rec, Options{}),
		views: rec,
	}
}

func as(u *models.User) context.Context {
	return xcontext.WithUserID(context.Background(), u.ID)
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func requireCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errorx.CodeOf(err), err.Error())
}

type failingInvalidator struct{}

func (failingInvalidator) Invalidate(context.Context, ...string) error {
	return errors.New("redis down")
}

func (failingInvalidator) Version(context.Context, string) (int64, error) {
	return 0, errors.New("redis down")
}
