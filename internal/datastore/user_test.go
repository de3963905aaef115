package datastore

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

// stubConn records every executed statement and can be told to fail
// statements matching a substring. bun resolves placeholders client-side, so
// the recorded strings are the final SQL.

type stubConnector struct{ conn *stubConn }

func (c *stubConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c *stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use the connector") }

type stubConn struct {
	queries   []string
	failOn    string
	commits   int
	rollbacks int
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return &stubTx{c}, nil }

func (c *stubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return &stubTx{c}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.queries = append(c.queries, query)
	if c.failOn != "" && strings.Contains(query, c.failOn) {
		return nil, errors.New("forced failure on " + c.failOn)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return nil, errors.New("query not supported")
}

type stubTx struct{ conn *stubConn }

func (t *stubTx) Commit() error   { t.conn.commits++; return nil }
func (t *stubTx) Rollback() error { t.conn.rollbacks++; return nil }

func newStubDB() (*bun.DB, *stubConn) {
	conn := &stubConn{}
	return bun.NewDB(sql.OpenDB(&stubConnector{conn}), pgdialect.New()), conn
}

func newRegistrationUser(id int64) *models.User {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return &models.User{
		ID:             id,
		FirstName:      "Ann",
		Language:       models.UserLanguageEN,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	referrerID := int64(7)

	t.Run("credits the referrer after a successful insert", func(t *testing.T) {
		db, conn := newStubDB()

		_, err := RegisterUser(ctx, db, newRegistrationUser(42), &referrerID, 500)
		require.NoError(t, err)

		require.Len(t, conn.queries, 2)
		assert.Contains(t, conn.queries[0], `INSERT INTO "users"`)
		assert.Contains(t, conn.queries[1], "referral_balance = referral_balance + 500")
		assert.Contains(t, conn.queries[1], "id = 7")
		assert.Equal(t, 1, conn.commits)
		assert.Equal(t, 0, conn.rollbacks)
	})

	t.Run("a failed insert rolls back and pays no bonus", func(t *testing.T) {
		db, conn := newStubDB()
		conn.failOn = "INSERT"

		_, err := RegisterUser(ctx, db, newRegistrationUser(42), &referrerID, 500)
		require.Error(t, err)

		for _, q := range conn.queries {
			assert.NotContains(t, q, "referral_balance")
		}
		assert.Equal(t, 0, conn.commits)
		assert.Equal(t, 1, conn.rollbacks)
	})

	t.Run("no referrer means a single insert", func(t *testing.T) {
		db, conn := newStubDB()

		_, err := RegisterUser(ctx, db, newRegistrationUser(42), nil, 0)
		require.NoError(t, err)

		require.Len(t, conn.queries, 1)
		assert.Contains(t, conn.queries[0], `INSERT INTO "users"`)
		assert.Equal(t, 1, conn.commits)
	})
}

func TestReferralCommission(t *testing.T) {
	cfg := models.DefaultEconomyConfig()

	tests := []struct {
		name   string
		level  int
		profit int64
		want   int64
	}{
		{"level 1 takes 5%", 1, 1000, 50},
		{"level 2 takes 2.5%", 2, 1000, 25},
		{"level 3 floors 12.5 down to 12", 3, 1000, 12},
		{"level 4 is outside the ladder", 4, 1000, 0},
		{"level 0 earns nothing", 0, 1000, 0},
		{"small profits floor to zero", 1, 19, 0},
		{"one point above the floor", 1, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferralCommission(cfg, tt.level, tt.profit))
		})
	}
}

func TestRewardUserReferrers(t *testing.T) {
	ctx := context.Background()
	cfg := models.DefaultEconomyConfig()

	t.Run("bakes per-level amounts into the statement", func(t *testing.T) {
		db, conn := newStubDB()

		err := RewardUserReferrers(ctx, db, cfg, 42, 1000)
		require.NoError(t, err)

		require.Len(t, conn.queries, 1)
		assert.Contains(t, conn.queries[0], "WHEN 1 THEN 50")
		assert.Contains(t, conn.queries[0], "WHEN 2 THEN 25")
		assert.Contains(t, conn.queries[0], "WHEN 3 THEN 12")
	})

	t.Run("zero profit touches nothing", func(t *testing.T) {
		db, conn := newStubDB()

		err := RewardUserReferrers(ctx, db, cfg, 42, 0)
		require.NoError(t, err)
		assert.Empty(t, conn.queries)
	})
}
