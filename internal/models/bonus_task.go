package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BonusTaskType string

const (
	BonusTaskTGChannel   BonusTaskType = "TG_CHANNEL"
	BonusTaskTGBot       BonusTaskType = "TG_BOT"
	BonusTaskUnspecified BonusTaskType = "UNSPECIFIED"
)

// BonusTask is a sponsor task rewarded once per user after external
// verification. AccessID/AccessData carry the verification parameters:
// the channel chat id for TG_CHANNEL, the sponsor bot token for TG_BOT.
type BonusTask struct {
	bun.BaseModel `bun:"table:bonus_tasks"`

	ID           int64         `bun:"id,pk,autoincrement" json:"id"`
	Name         string        `bun:"name" json:"name"`
	Description  string        `bun:"description" json:"description"`
	Photo        []byte        `bun:"photo" json:"-"`
	Link         string        `bun:"link" json:"link"`
	RewardAmount int64         `bun:"reward_amount" json:"reward_amount"`
	TaskType     BonusTaskType `bun:"task_type" json:"task_type"`

	AccessID   *int64  `bun:"access_id,unique" json:"-"`
	AccessData *string `bun:"access_data" json:"-"`
}

type BonusTaskCompletition struct {
	bun.BaseModel `bun:"table:bonus_tasks_completition"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64     `bun:"user_id" json:"user_id"`
	BonusTaskID int64     `bun:"bonus_task_id" json:"bonus_task_id"`
	CompletedAt time.Time `bun:"completed_at" json:"completed_at"`
}
