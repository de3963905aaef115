package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

type fakeLinkCache struct {
	link *models.ReferralLink
	err  error
}

func (c *fakeLinkCache) Get(_ context.Context, _ string, target any) error {
	if c.err != nil {
		return c.err
	}
	*(target.(**models.ReferralLink)) = c.link
	return nil
}

func (c *fakeLinkCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (c *fakeLinkCache) Delete(context.Context, string) error                  { return nil }

type recConnector struct{ conn *recConn }

func (c *recConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c *recConnector) Driver() driver.Driver                        { return recDriver{} }

type recDriver struct{}

func (recDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use the connector") }

type recConn struct {
	queries []string
	failOn  string
}

func (c *recConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *recConn) Close() error              { return nil }
func (c *recConn) Begin() (driver.Tx, error) { return recTx{}, nil }

func (c *recConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return recTx{}, nil
}

func (c *recConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.queries = append(c.queries, query)
	if c.failOn != "" && strings.Contains(query, c.failOn) {
		return nil, errors.New("forced failure on " + c.failOn)
	}
	return driver.RowsAffected(1), nil
}

func (c *recConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return nil, errors.New("query not supported")
}

type recTx struct{}

func (recTx) Commit() error   { return nil }
func (recTx) Rollback() error { return nil }

func newServiceUser(cache *fakeLinkCache) (*ServiceUser, *recConn) {
	conn := &recConn{}
	db := bun.NewDB(sql.OpenDB(&recConnector{conn}), pgdialect.New())
	return &ServiceUser{db: db, cache: cache, cfg: models.DefaultEconomyConfig()}, conn
}

func TestRegisterReferralLinkSource(t *testing.T) {
	ctx := context.Background()
	source := "promo"

	input := func() *RegistrationInput {
		return &RegistrationInput{
			ID:        42,
			FirstName: "Ann",
			Language:  models.UserLanguageEN,
			Source:    &source,
		}
	}

	t.Run("transient lookup failure aborts the registration", func(t *testing.T) {
		service, conn := newServiceUser(&fakeLinkCache{err: errors.New("redis down")})

		_, err := service.Register(ctx, input())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis down")
		assert.Empty(t, conn.queries)
	})

	t.Run("unknown link drops the source", func(t *testing.T) {
		service, _ := newServiceUser(&fakeLinkCache{err: sql.ErrNoRows})

		user, err := service.Register(ctx, input())
		require.NoError(t, err)
		assert.Nil(t, user.Source)
	})

	t.Run("inactive link drops the source", func(t *testing.T) {
		service, _ := newServiceUser(&fakeLinkCache{link: &models.ReferralLink{ID: source}})

		user, err := service.Register(ctx, input())
		require.NoError(t, err)
		assert.Nil(t, user.Source)
	})

	t.Run("active link keeps the source", func(t *testing.T) {
		service, _ := newServiceUser(&fakeLinkCache{link: &models.ReferralLink{ID: source, IsActive: true}})

		user, err := service.Register(ctx, input())
		require.NoError(t, err)
		require.NotNil(t, user.Source)
		assert.Equal(t, source, *user.Source)
	})

	t.Run("failed insert surfaces the error", func(t *testing.T) {
		service, conn := newServiceUser(&fakeLinkCache{link: &models.ReferralLink{ID: source, IsActive: true}})
		conn.failOn = "INSERT"

		_, err := service.Register(ctx, input())
		require.Error(t, err)
	})
}
