package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankingField(t *testing.T) {
	tests := []struct {
		rankingType RankingType
		period      RankingPeriod
		field       string
	}{
		{RankingTypeGame, RankingPeriodAlltime, "game_alltime_highscore"},
		{RankingTypeGame, RankingPeriodDaily, "game_daily_highscore"},
		{RankingTypeOverallProfit, RankingPeriodAlltime, "balance"},
		{RankingTypeOverallProfit, RankingPeriodDaily, "daily_overall_profit"},
	}

	for _, tt := range tests {
		field, err := RankingField(tt.rankingType, tt.period)
		assert.NoError(t, err)
		assert.Equal(t, tt.field, field)
	}

	_, err := RankingField("gems", RankingPeriodDaily)
	assert.ErrorIs(t, err, ErrUnknownRanking)

	_, err = RankingField(RankingTypeGame, "weekly")
	assert.ErrorIs(t, err, ErrUnknownRanking)
}
