package services

import (
	"context"
	"errors"
	"time"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/pkg"
	"github.com/loobinsk/virusq/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceDailyReward struct {
	container *do.Injector
	db        *bun.DB
	rs        *redsync.Redsync
	cache     caching.Cache
}

func NewServiceDailyReward(container *do.Injector) (*ServiceDailyReward, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceDailyReward{container, db, rs, cache}, nil
}

// DailyRewardState is what the ladder owes the user right now: the rung to
// show, whether today's rung is already collected, and whether claiming it
// restarts a broken streak.
type DailyRewardState struct {
	Reward    *models.DailyReward `json:"reward"`
	IsClaimed bool                `json:"is_claimed"`
	Reset     bool                `json:"-"`
}

// ResolveDailyReward walks the ladder from the latest collection. Same-day
// collection pins the current rung as claimed; a one-day gap advances the
// streak, repeating the final rung once the ladder runs out; anything older
// breaks the streak back to day one.
func ResolveDailyReward(rewards []models.DailyReward, latest *models.DailyRewardCompletition, now time.Time) *DailyRewardState {
	if len(rewards) == 0 {
		return nil
	}

	if latest == nil || latest.DailyReward == nil {
		return &DailyRewardState{Reward: &rewards[0]}
	}

	switch {
	case pkg.SameDayUTC(latest.CollectedAt, now):
		day := latest.DailyReward.Day
		for i := range rewards {
			if rewards[i].Day == day {
				return &DailyRewardState{Reward: &rewards[i], IsClaimed: true}
			}
		}
		return &DailyRewardState{Reward: latest.DailyReward, IsClaimed: true}
	case pkg.DaysApartUTC(latest.CollectedAt, now) == 1:
		next := latest.DailyReward.Day + 1
		for i := range rewards {
			if rewards[i].Day == next {
				return &DailyRewardState{Reward: &rewards[i]}
			}
		}
		// ladder exhausted, the final rung keeps paying while the streak holds
		return &DailyRewardState{Reward: &rewards[len(rewards)-1]}
	default:
		return &DailyRewardState{Reward: &rewards[0], Reset: true}
	}
}

func (service *ServiceDailyReward) GetAll(ctx context.Context) ([]models.DailyReward, error) {
	callback := func() ([]models.DailyReward, error) {
		return datastore.GetAllDailyRewards(ctx, service.db)
	}

	return caching.UseCache(ctx, service.cache, DBKeyDailyRewards(), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceDailyReward) GetCurrent(ctx context.Context, userID int64) (*DailyRewardState, error) {
	rewards, err := service.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := datastore.GetLatestCollectedReward(ctx, service.db, userID)
	if err != nil {
		return nil, err
	}

	state := ResolveDailyReward(rewards, latest, time.Now().UTC())
	if state == nil {
		return nil, errorx.Wrap(errors.New("daily reward ladder is empty"), errorx.NotExist)
	}
	return state, nil
}

// Claim collects the current rung. The per-user mutex keeps a double tap from
// inserting two completions for the same day.
func (service *ServiceDailyReward) Claim(ctx context.Context, userID int64) (*models.User, error) {
	mutex := service.rs.NewMutex(LockKeyDailyRewardClaim(userID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(err, errorx.RateLimiting)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	state, err := service.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.IsClaimed {
		return nil, errorx.Wrap(ErrAlreadyClaimed, errorx.Invalid)
	}

	if state.Reset {
		if err := datastore.DeleteCollectedRewards(ctx, service.db, userID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if _, err := datastore.InsertRewardCompletion(ctx, service.db, userID, state.Reward.ID, now); err != nil {
		return nil, err
	}

	user, err := datastore.CreditReward(ctx, service.db, userID, state.Reward.RewardAmount)
	if err != nil {
		return nil, err
	}

	return user, nil
}
