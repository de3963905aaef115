package datastore

import (
	"context"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableDailyReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DailyReward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.DailyRewardCompletition)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DailyRewardCompletition)(nil)).Index("index_daily_rewards_completition_user_id").IfNotExists().Column("user_id").Exec(ctx)
	return err
}

func GetAllDailyRewards(ctx context.Context, db *bun.DB) ([]models.DailyReward, error) {
	var rewards []models.DailyReward
	err := db.NewSelect().Model(&rewards).Order("day ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

// GetLatestCollectedReward returns the most recent completion with its rung
// joined in, or nil when the user has never collected.
func GetLatestCollectedReward(ctx context.Context, db *bun.DB, userID int64) (*models.DailyRewardCompletition, error) {
	var completions []models.DailyRewardCompletition
	err := db.NewSelect().
		Model(&completions).
		Relation("DailyReward").
		Where("user_id = ?", userID).
		Order("collected_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(completions) == 0 {
		return nil, nil
	}
	return &completions[0], nil
}

func DeleteCollectedRewards(ctx context.Context, db *bun.DB, userID int64) error {
	_, err := db.NewDelete().
		Model((*models.DailyRewardCompletition)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}

func InsertRewardCompletion(ctx context.Context, db *bun.DB, userID, dailyRewardID int64, collectedAt time.Time) (*models.DailyRewardCompletition, error) {
	completion := &models.DailyRewardCompletition{
		UserID:        userID,
		DailyRewardID: dailyRewardID,
		CollectedAt:   collectedAt,
	}
	_, err := db.NewInsert().Model(completion).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return completion, nil
}
