package datastore

import (
	"context"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableBonusTask(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.BonusTask)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.BonusTaskCompletition)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BonusTaskCompletition)(nil)).Index("index_bonus_tasks_completition_user_id").IfNotExists().Column("user_id", "bonus_task_id").Exec(ctx)
	return err
}

func CreateBonusTask(ctx context.Context, db *bun.DB, task *models.BonusTask) (*models.BonusTask, error) {
	_, err := db.NewInsert().Model(task).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetUncompletedTasks lists tasks the user has not claimed yet; the
// anti-join against the completion table is the once-per-user guard.
func GetUncompletedTasks(ctx context.Context, db *bun.DB, userID int64) ([]models.BonusTask, error) {
	var tasks []models.BonusTask
	err := db.NewSelect().
		Model(&tasks).
		Join("LEFT JOIN bonus_tasks_completition AS btc ON btc.bonus_task_id = bonus_task.id AND btc.user_id = ?", userID).
		Where("btc.bonus_task_id IS NULL").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func GetUncompletedTaskByID(ctx context.Context, db *bun.DB, userID, taskID int64) (*models.BonusTask, error) {
	var task models.BonusTask
	err := db.NewSelect().
		Model(&task).
		Join("LEFT JOIN bonus_tasks_completition AS btc ON btc.bonus_task_id = bonus_task.id AND btc.user_id = ?", userID).
		Where("btc.bonus_task_id IS NULL").
		Where("bonus_task.id = ?", taskID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func SetBonusTaskCompleted(ctx context.Context, db *bun.DB, userID, taskID int64) error {
	completion := &models.BonusTaskCompletition{
		UserID:      userID,
		BonusTaskID: taskID,
		CompletedAt: time.Now().UTC(),
	}
	_, err := db.NewInsert().Model(completion).Exec(ctx)
	return err
}

func DeleteBonusTask(ctx context.Context, db *bun.DB, taskID int64) error {
	_, err := db.NewDelete().
		Model((*models.BonusTask)(nil)).
		Where("id = ?", taskID).
		Exec(ctx)
	return err
}
