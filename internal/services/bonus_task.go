package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/interfaces"
	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/pkg/limiter"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceBonusTask struct {
	container *do.Injector
	db        *bun.DB
	telegram  *ServiceTelegram
	limiter   interfaces.Limiter
}

func NewServiceBonusTask(container *do.Injector) (*ServiceBonusTask, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	telegram, err := do.Invoke[*ServiceTelegram](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	return &ServiceBonusTask{container, db, telegram, limiter}, nil
}

func (service *ServiceBonusTask) GetUncompleted(ctx context.Context, userID int64) ([]models.BonusTask, error) {
	return datastore.GetUncompletedTasks(ctx, service.db, userID)
}

func (service *ServiceBonusTask) Create(ctx context.Context, task *models.BonusTask) (*models.BonusTask, error) {
	task, err := datastore.CreateBonusTask(ctx, service.db, task)
	if isIntegrityViolation(err) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (service *ServiceBonusTask) Delete(ctx context.Context, taskID int64) error {
	return datastore.DeleteBonusTask(ctx, service.db, taskID)
}

// Claim verifies the task externally and pays it once. Verification is
// best-effort: a failed or errored check means the task is still
// uncompleted, never a hard failure.
func (service *ServiceBonusTask) Claim(ctx context.Context, userID, taskID int64) (*models.User, error) {
	err := service.limiter.Allow(ctx, LimitKeyTaskVerify(userID), redis_rate.PerMinute(TASK_VERIFY_RATE_LIMIT_PER_MINUTE))
	if errors.Is(err, limiter.ErrRateLimited) {
		return nil, errorx.Wrap(err, errorx.RateLimiting)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	task, err := datastore.GetUncompletedTaskByID(ctx, service.db, userID, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("bonus task not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	if !service.isTaskSatisfied(ctx, task, userID) {
		return nil, errorx.Wrap(ErrTaskUncompleted, errorx.Invalid)
	}

	if err := datastore.SetBonusTaskCompleted(ctx, service.db, userID, task.ID); err != nil {
		return nil, err
	}

	user, err := datastore.CreditReward(ctx, service.db, userID, task.RewardAmount)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (service *ServiceBonusTask) isTaskSatisfied(ctx context.Context, task *models.BonusTask, userID int64) bool {
	switch task.TaskType {
	case models.BonusTaskTGChannel:
		if task.AccessID == nil {
			return false
		}
		ok, err := service.telegram.IsChatMember(ctx, *task.AccessID, userID)
		return err == nil && ok
	case models.BonusTaskTGBot:
		if task.AccessID == nil || task.AccessData == nil {
			return false
		}
		err := service.telegram.SendChatAction(ctx, *task.AccessData, *task.AccessID, "typing")
		return err == nil
	default:
		return true
	}
}
