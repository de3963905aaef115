package services

import (
	"context"
	"errors"
	"testing"

	"github.com/loobinsk/virusq/internal/pkg/limiter"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct{ err error }

func (l *fakeLimiter) Allow(context.Context, string, redis_rate.Limit) error { return l.err }

func TestClaimLimiterErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("an exhausted limit reads as rate limiting", func(t *testing.T) {
		service := &ServiceBonusTask{limiter: &fakeLimiter{err: limiter.ErrRateLimited}}

		_, err := service.Claim(ctx, 1, 1)
		require.Error(t, err)

		var xerr *errorx.Error
		require.ErrorAs(t, err, &xerr)
		assert.True(t, xerr.Of(errorx.RateLimiting))
	})

	t.Run("a limiter outage reads as a service failure", func(t *testing.T) {
		service := &ServiceBonusTask{limiter: &fakeLimiter{err: errors.New("redis down")}}

		_, err := service.Claim(ctx, 1, 1)
		require.Error(t, err)

		var xerr *errorx.Error
		require.ErrorAs(t, err, &xerr)
		assert.True(t, xerr.Of(errorx.Service))
		assert.False(t, xerr.Of(errorx.RateLimiting))
	})
}
