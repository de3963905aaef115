package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailyReward is one rung of the login-streak ladder.
type DailyReward struct {
	bun.BaseModel `bun:"table:daily_rewards"`

	ID           int64 `bun:"id,pk,autoincrement" json:"id"`
	Day          int   `bun:"day,unique" json:"day"`
	RewardAmount int64 `bun:"reward_amount" json:"reward_amount"`
}

type DailyRewardCompletition struct {
	bun.BaseModel `bun:"table:daily_rewards_completition"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	DailyRewardID int64     `bun:"daily_reward_id" json:"daily_reward_id"`
	CollectedAt   time.Time `bun:"collected_at" json:"collected_at"`

	DailyReward *DailyReward `bun:"rel:belongs-to,join:daily_reward_id=id" json:"daily_reward"`
}
