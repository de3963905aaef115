package services

import (
	"testing"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ladder() []models.DailyReward {
	return []models.DailyReward{
		{ID: 1, Day: 1, RewardAmount: 100},
		{ID: 2, Day: 2, RewardAmount: 200},
		{ID: 3, Day: 3, RewardAmount: 400},
		{ID: 4, Day: 4, RewardAmount: 800},
	}
}

func completion(day int, collectedAt time.Time) *models.DailyRewardCompletition {
	reward := models.DailyReward{ID: int64(day), Day: day}
	return &models.DailyRewardCompletition{
		DailyRewardID: reward.ID,
		CollectedAt:   collectedAt,
		DailyReward:   &reward,
	}
}

func TestResolveDailyReward(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("empty ladder", func(t *testing.T) {
		assert.Nil(t, ResolveDailyReward(nil, nil, now))
	})

	t.Run("first ever claim", func(t *testing.T) {
		state := ResolveDailyReward(ladder(), nil, now)
		require.NotNil(t, state)
		assert.Equal(t, 1, state.Reward.Day)
		assert.False(t, state.IsClaimed)
		assert.False(t, state.Reset)
	})

	t.Run("already collected today", func(t *testing.T) {
		state := ResolveDailyReward(ladder(), completion(2, now.Add(-2*time.Hour)), now)
		require.NotNil(t, state)
		assert.Equal(t, 2, state.Reward.Day)
		assert.True(t, state.IsClaimed)
	})

	t.Run("streak advances after yesterday", func(t *testing.T) {
		state := ResolveDailyReward(ladder(), completion(3, now.Add(-24*time.Hour)), now)
		require.NotNil(t, state)
		assert.Equal(t, 4, state.Reward.Day)
		assert.False(t, state.IsClaimed)
		assert.False(t, state.Reset)
	})

	t.Run("late evening to early morning still counts", func(t *testing.T) {
		evening := time.Date(2025, 3, 9, 23, 50, 0, 0, time.UTC)
		morning := time.Date(2025, 3, 10, 0, 10, 0, 0, time.UTC)
		state := ResolveDailyReward(ladder(), completion(1, evening), morning)
		require.NotNil(t, state)
		assert.Equal(t, 2, state.Reward.Day)
	})

	t.Run("exhausted ladder repeats the final rung", func(t *testing.T) {
		state := ResolveDailyReward(ladder(), completion(4, now.Add(-24*time.Hour)), now)
		require.NotNil(t, state)
		assert.Equal(t, 4, state.Reward.Day)
		assert.Equal(t, int64(800), state.Reward.RewardAmount)
		assert.False(t, state.Reset)
	})

	t.Run("gap breaks the streak", func(t *testing.T) {
		state := ResolveDailyReward(ladder(), completion(3, now.Add(-48*time.Hour)), now)
		require.NotNil(t, state)
		assert.Equal(t, 1, state.Reward.Day)
		assert.True(t, state.Reset)
	})
}
