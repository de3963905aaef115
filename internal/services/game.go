package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/pkg/checksum"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceGame struct {
	container *do.Injector
	db        *bun.DB
	rs        *redsync.Redsync
	codec     *checksum.Codec
	cfg       *models.EconomyConfig
}

func NewServiceGame(container *do.Injector) (*ServiceGame, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	codec, err := do.Invoke[*checksum.Codec](container)
	if err != nil {
		return nil, err
	}

	cfg, err := do.Invoke[*models.EconomyConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceGame{container, db, rs, codec, cfg}, nil
}

// Start spends one energy point and opens a session. The energy decrement is
// the guard itself: when it touches no row the user has nothing left to spend.
func (service *ServiceGame) Start(ctx context.Context, userID int64) (*models.Game, *models.User, error) {
	user, ok, err := datastore.DecrementGameEnergy(ctx, service.db, userID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errorx.Wrap(ErrGameStartImpossible, errorx.Invalid)
	}

	game := &models.Game{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	game, err = datastore.CreateGame(ctx, service.db, game)
	if err != nil {
		return nil, nil, err
	}

	return game, user, nil
}

type GameFinishResult struct {
	Game *models.Game `json:"game"`
	User *models.User `json:"user"`
}

// Finish settles a session from a sealed score token. The per-game mutex
// makes replays of the same token lose on the finished_at guard instead of
// paying twice.
func (service *ServiceGame) Finish(ctx context.Context, userID int64, token string) (*GameFinishResult, error) {
	payload, err := service.codec.Decode(token)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}

	mutex := service.rs.NewMutex(LockKeyGameFinish(payload.GameID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrGameFinishLock, errorx.RateLimiting)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	game, err := datastore.FindActiveGame(ctx, service.db, payload.GameID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("game not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	suspicious := service.IsScoreSuspicious(payload.Score, game.CreatedAt, now)

	game, ok, err := datastore.FinishGame(ctx, service.db, game.ID, payload.Score, suspicious, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Wrap(ErrActionNotAllowed, errorx.Invalid)
	}

	if suspicious {
		log.Println("suspicious game finish:", "game:", game.ID, "user:", userID, "score:", payload.Score)
	}

	user, err := datastore.CreditGameScore(ctx, service.db, userID, payload.Score)
	if err != nil {
		return nil, err
	}

	if err := datastore.RewardUserReferrers(ctx, service.db, service.cfg, userID, payload.Score); err != nil {
		return nil, err
	}

	return &GameFinishResult{Game: game, User: user}, nil
}

// IsScoreSuspicious applies two heuristics over the level ladder: a run that
// cleared the whole ladder, or one faster than the per-level floor allows.
// The check is advisory, flagged sessions still pay out.
func (service *ServiceGame) IsScoreSuspicious(score int64, startedAt, finishedAt time.Time) bool {
	completed := 0
	var total int64
	for _, points := range service.cfg.GameLevelPoints {
		total += points
		if score < total {
			break
		}
		completed++
	}

	if completed >= service.cfg.GameSuspicionLevels {
		return true
	}

	// whole seconds, fractions are not played time
	played := int(finishedAt.Sub(startedAt) / time.Second)
	return completed*service.cfg.GameSecondsPerLevelMin >= played
}
