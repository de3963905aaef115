package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFarmingStatusAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	user := &User{FarmingDurationHours: 10, FarmingHourMiningRate: 36}
	assert.Equal(t, FarmingNotStarted, user.FarmingStatusAt(now))

	started := now.Add(-3 * time.Hour)
	user.FarmingStartedAt = &started
	assert.Equal(t, FarmingInProgress, user.FarmingStatusAt(now))

	started = now.Add(-10 * time.Hour)
	user.FarmingStartedAt = &started
	assert.Equal(t, FarmingFinished, user.FarmingStatusAt(now))

	started = now.Add(-24 * time.Hour)
	user.FarmingStartedAt = &started
	assert.Equal(t, FarmingFinished, user.FarmingStatusAt(now))
}

func TestFarmingTotalProfit(t *testing.T) {
	user := &User{FarmingDurationHours: 10, FarmingHourMiningRate: 36}
	assert.Equal(t, int64(360), user.FarmingTotalProfit())
}

func TestFarmingSecondMiningRate(t *testing.T) {
	user := &User{FarmingHourMiningRate: 36}
	assert.Equal(t, 0.01, user.FarmingSecondMiningRate())

	user.FarmingHourMiningRate = 3600
	assert.Equal(t, 1.0, user.FarmingSecondMiningRate())
}
