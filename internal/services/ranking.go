package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type RankingType string

type RankingPeriod string

const (
	RankingTypeGame          RankingType = "game"
	RankingTypeOverallProfit RankingType = "overall_profit"

	RankingPeriodAlltime RankingPeriod = "alltime"
	RankingPeriodDaily   RankingPeriod = "daily"
)

var ErrUnknownRanking = errors.New("unknown ranking type or period")

// RankingField maps the public type/period pair to the users column the
// board is sorted by.
func RankingField(rankingType RankingType, period RankingPeriod) (string, error) {
	switch rankingType {
	case RankingTypeGame:
		switch period {
		case RankingPeriodAlltime:
			return "game_alltime_highscore", nil
		case RankingPeriodDaily:
			return "game_daily_highscore", nil
		}
	case RankingTypeOverallProfit:
		switch period {
		case RankingPeriodAlltime:
			return "balance", nil
		case RankingPeriodDaily:
			return "daily_overall_profit", nil
		}
	}
	return "", ErrUnknownRanking
}

type ServiceRanking struct {
	container *do.Injector
	db        *bun.DB
	cache     caching.Cache
	cfg       *models.EconomyConfig
}

func NewServiceRanking(container *do.Injector) (*ServiceRanking, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	cfg, err := do.Invoke[*models.EconomyConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceRanking{container, db, cache, cfg}, nil
}

type UserRankingInfo struct {
	Place int   `json:"place"`
	Score int64 `json:"score"`
}

// GetUserRankingInfo counts strictly-better rows capped at the place limit,
// so the place saturates instead of scanning the whole table.
func (service *ServiceRanking) GetUserRankingInfo(ctx context.Context, userID int64, rankingType RankingType, period RankingPeriod) (*UserRankingInfo, error) {
	field, err := RankingField(rankingType, period)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	user, err := datastore.FindUserByID(ctx, service.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("user not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	score := rankingScore(user, field)
	place, err := datastore.GetUserRankingPlace(ctx, service.db, service.cfg, field, userID, score)
	if err != nil {
		return nil, err
	}

	return &UserRankingInfo{Place: place, Score: score}, nil
}

type RankingEntry struct {
	Place     int     `json:"place"`
	UserID    int64   `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Score     int64   `json:"score"`
}

// GetRankingChunk serves one page of the board, briefly cached since the
// same page is hammered by every connected client.
func (service *ServiceRanking) GetRankingChunk(ctx context.Context, rankingType RankingType, period RankingPeriod, offset int) ([]RankingEntry, error) {
	field, err := RankingField(rankingType, period)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	if offset < 0 || offset > service.cfg.RankingMaxTopPlace-service.cfg.RankingChunkSize {
		return nil, errorx.Wrap(errors.New("offset out of range"), errorx.Validation)
	}

	callback := func() ([]RankingEntry, error) {
		users, err := datastore.GetRankingChunk(ctx, service.db, service.cfg, field, offset)
		if err != nil {
			return nil, err
		}

		entries := make([]RankingEntry, 0, len(users))
		for i, user := range users {
			entries = append(entries, RankingEntry{
				Place:     offset + i + 1,
				UserID:    user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Username:  user.Username,
				Score:     rankingScore(user, field),
			})
		}
		return entries, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyRankingChunk(field, offset), CACHE_TTL_5_SECONDS, callback)
}

func rankingScore(user *models.User, field string) int64 {
	switch field {
	case "game_alltime_highscore":
		return user.GameAlltimeHighscore
	case "game_daily_highscore":
		return user.GameDailyHighscore
	case "daily_overall_profit":
		return user.DailyOverallProfit
	default:
		return user.Balance
	}
}
